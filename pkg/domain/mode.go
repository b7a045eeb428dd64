package domain

// Mode is how a gesture has been resolved.
type Mode string

const (
	ModeUnresolved Mode = "unresolved" // Neither dwell nor movement decided yet
	ModeNovice     Mode = "novice"     // The pointer dwelt: the menu is revealed
	ModeExpert     Mode = "expert"     // The pointer moved first: marking without a menu
)
