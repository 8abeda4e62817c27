package doc

import (
	"sort"

	"livedocs/internal/app/user"
)

// onlineUsers derives the deduplicated presence list from the live
// connections: one summary per distinct logical user, regardless of how many
// tabs back it. The list is sorted by user id so repeated broadcasts are
// stable for clients and tests.
func onlineUsers(reg *Registry) []user.Summary {
	seen := make(map[string]struct{}, reg.Len())
	users := make([]user.Summary, 0, reg.Len())

	reg.Each(func(conn Connection) {
		if _, ok := seen[conn.User.ID]; ok {
			return
		}
		seen[conn.User.ID] = struct{}{}
		users = append(users, conn.User.Summary())
	})

	sort.Slice(users, func(i, j int) bool {
		return users[i].UserID < users[j].UserID
	})

	return users
}
