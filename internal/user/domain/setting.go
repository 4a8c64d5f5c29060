package domain

// LocaleSettingName is the setting that also switches the caller's locale.
const LocaleSettingName = "locale"

// UserSetting is a free form name/value pair owned by a user. Names are not
// unique per user.
type UserSetting struct {
	BaseEntity
	Name   string
	Value  string
	UserID string
}
