package game

// Role is the kind of card a player holds for one game.
type Role string

const (
	RoleVillager  Role = "villager"
	RoleWerewolf  Role = "werewolf"
	RoleSorceress Role = "sorceress"
	RoleStealer   Role = "stealer"
	RoleCupid     Role = "cupid"
)

// Card is a dealt role instance. Only the sorceress card carries potions,
// each usable at most once for the whole game.
type Card struct {
	Role       Role
	OwnerID    string
	GameID     string
	HealPotion bool
	KillPotion bool
}

func newCard(role Role, ownerID, gameID string) *Card {
	return &Card{
		Role:       role,
		OwnerID:    ownerID,
		GameID:     gameID,
		HealPotion: role == RoleSorceress,
		KillPotion: role == RoleSorceress,
	}
}
