package login

const (
	flagUsername      = "username"
	flagUsernameShort = "u"
	flagUsernameUsage = "the username of your dashboard account"

	flagPassword      = "password"
	flagPasswordShort = "p"
	flagPasswordUsage = "the password of your dashboard account"
)
