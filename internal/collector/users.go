package collector

import (
	"os/user"
	"strconv"

	"github.com/7c/procmon/internal/model"
)

// UserCache resolves uids through os/user and remembers the answers,
// including failures. Not safe for concurrent use.
type UserCache struct {
	lookup func(uid string) (string, error)
	names  map[uint32]string
}

// NewUserCache returns a cache backed by the system user database.
func NewUserCache() *UserCache {
	return &UserCache{
		lookup: func(uid string) (string, error) {
			u, err := user.LookupId(uid)
			if err != nil {
				return "", err
			}
			return u.Username, nil
		},
		names: make(map[uint32]string),
	}
}

// UserName returns the user name for uid, or "unknown".
func (c *UserCache) UserName(uid uint32) string {
	if name, ok := c.names[uid]; ok {
		return name
	}
	name, err := c.lookup(strconv.FormatUint(uint64(uid), 10))
	if err != nil || name == "" {
		name = model.UnknownOwner
	}
	c.names[uid] = name
	return name
}
