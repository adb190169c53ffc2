package redis

import "fmt"

// Key prefix for all pickup data
const keyPrefix = "pickup"

// userKey returns the Redis key for a User
func userKey(id string) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// telegramIndexKey returns the Redis key for the telegram_id -> user_id index
func telegramIndexKey(telegramID int64) string {
	return fmt.Sprintf("%s:idx:telegram:%d", keyPrefix, telegramID)
}

// usersIndexKey returns the Redis key for the SET of all user ids
func usersIndexKey() string {
	return fmt.Sprintf("%s:idx:users", keyPrefix)
}

// matchKey returns the Redis key for a Match
func matchKey(id string) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchesIndexKey returns the Redis key for the SET of all match ids
func matchesIndexKey() string {
	return fmt.Sprintf("%s:idx:matches", keyPrefix)
}

// localIdentityKey returns the fixed Redis key for the locally persisted identity
func localIdentityKey() string {
	return fmt.Sprintf("%s:local:identity", keyPrefix)
}
