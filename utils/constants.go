// File: utils/constants.go
package utils

import "time"

// AdminAuthCachePrefix is the prefix used for admin authorization cache keys.
const AdminAuthCachePrefix = "admin-auth:"

// AdminAuthCacheTTL is the time-to-live for admin authorization cache entries.
const AdminAuthCacheTTL = 10 * time.Minute
