package flows

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 25
)

// Validation failures carry the user-facing message directly; the engine
// surfaces err.Error() as the failure message of a business result.
var (
	errUsernameBlank  = errors.New("用户名不能为空!")
	errUsernameLength = errors.New("用户名长度不能小于3位且不能大于25位!")
	errPasswordBlank  = errors.New("密码不能为空!")
	errOldTokenBlank  = errors.New("原token不能为空!")
)

// CheckUsername enforces the structural username rules shared by login and refresh.
func CheckUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return errUsernameBlank
	}
	if n := utf8.RuneCountInString(username); n < usernameMinLen || n > usernameMaxLen {
		return errUsernameLength
	}
	return nil
}

// CheckPassword rejects blank passwords before the directory is consulted.
func CheckPassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return errPasswordBlank
	}
	return nil
}

// CheckOldToken rejects blank tokens before the refresh flow runs.
func CheckOldToken(oldToken string) error {
	if strings.TrimSpace(oldToken) == "" {
		return errOldTokenBlank
	}
	return nil
}
