package models

// SettingsID is the fixed primary key of the singleton settings row.
const SettingsID = 1

// Settings holds the four ascending minute thresholds used to classify
// unresponded emails by elapsed time since send.
type Settings struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TWhiteMinutes  int `gorm:"not null;default:1140" json:"t_white_minutes"`
	TBlueMinutes   int `gorm:"not null;default:4320" json:"t_blue_minutes"`
	TYellowMinutes int `gorm:"not null;default:7200" json:"t_yellow_minutes"`
	TRedMinutes    int `gorm:"not null;default:10080" json:"t_red_minutes"`
}

// TableName returns the table name for Settings
func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings returns the seed row used at startup when no settings
// row exists yet.
func DefaultSettings() Settings {
	return Settings{
		ID:             SettingsID,
		TWhiteMinutes:  1140,
		TBlueMinutes:   4320,
		TYellowMinutes: 7200,
		TRedMinutes:    10080,
	}
}
