package installer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

func isTelegram(state *InstallState) bool { return state.Channel == ChannelTelegram }

func NewTelegramTokenStep() Step {
	return newInputStep("Enter your Telegram Bot Token:", "123456789:ABCDEF...", true,
		func(state *InstallState, value string) error {
			value = strings.TrimSpace(value)
			if value == "" {
				return errors.New("the token is required")
			}
			state.Settings.TelegramToken = value
			return nil
		}).onlyIf(isTelegram)
}

func NewTelegramAllowedUsersStep() Step {
	return newInputStep("Telegram user IDs allowed to ask (comma separated, empty for everyone):", "123456789,987654321", false,
		func(state *InstallState, value string) error {
			ids, err := parseIDs(value)
			if err != nil {
				return err
			}
			state.Settings.TelegramAllowedUsers = ids
			return nil
		}).onlyIf(isTelegram)
}

func parseIDs(value string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(value) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a user id", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
