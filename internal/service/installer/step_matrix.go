package installer

import (
	"errors"
	"net/url"
	"strings"
)

func isMatrix(state *InstallState) bool { return state.Channel == ChannelMatrix }

func required(name string, set func(*Settings, string)) func(*InstallState, string) error {
	return func(state *InstallState, value string) error {
		value = strings.TrimSpace(value)
		if value == "" {
			return errors.New(name + " is required")
		}
		set(&state.Settings, value)
		return nil
	}
}

func NewMatrixHomeserverStep() Step {
	return newInputStep("Matrix homeserver URL:", "https://matrix.example.org", false,
		func(state *InstallState, value string) error {
			u, err := url.Parse(strings.TrimSpace(value))
			if err != nil || u.Scheme == "" || u.Host == "" {
				return errors.New("enter a full URL such as https://matrix.example.org")
			}
			state.Settings.MatrixHomeserver = u.String()
			if state.Settings.MatrixServerName == "" {
				state.Settings.MatrixServerName = u.Hostname()
			}
			return nil
		}).onlyIf(isMatrix)
}

func NewMatrixServerNameStep() Step {
	return newInputStep("Matrix server name (the part after the colon in user IDs):", "example.org", false,
		func(state *InstallState, value string) error {
			if value = strings.TrimSpace(value); value != "" {
				state.Settings.MatrixServerName = value
			}
			return nil
		}).onlyIf(isMatrix)
}

func NewMatrixUserStep() Step {
	return newInputStep("Matrix bot user name (localpart):", "pleiabot", false,
		required("the user name", func(s *Settings, v string) { s.MatrixUser = strings.TrimPrefix(v, "@") })).
		onlyIf(isMatrix)
}

func NewMatrixPasswordStep() Step {
	return newInputStep("Matrix bot password:", "", true,
		required("the password", func(s *Settings, v string) { s.MatrixPassword = v })).
		onlyIf(isMatrix)
}

func NewMatrixAllowedUsersStep() Step {
	return newInputStep("Matrix users allowed to ask and invite (comma separated, empty for everyone):", "@alice:example.org", false,
		func(state *InstallState, value string) error {
			users := splitList(value)
			for _, u := range users {
				if !strings.HasPrefix(u, "@") || !strings.Contains(u, ":") {
					return errors.New(u + " is not a Matrix user id")
				}
			}
			state.Settings.MatrixAllowedUsers = users
			return nil
		}).onlyIf(isMatrix)
}
