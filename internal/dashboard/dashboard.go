package dashboard

import "time"

// Counts are the raw employee totals for one account.
type Counts struct {
	Total       int `db:"total"`
	WithPermits int `db:"with_permits"`
}

type ExpiryBucket struct {
	Label string `json:"label"`
	From  int    `json:"from"`
	To    int    `json:"to"`
	Count int    `json:"count"`
}

type Stats struct {
	TotalEmployees         int            `json:"totalEmployees"`
	WithPermits            int            `json:"withPermits"`
	EmployeesWithoutPermit int            `json:"employeesWithoutPermit"`
	Expiring90Days         int            `json:"expiring90Days"`
	Expiring30Days         int            `json:"expiring30Days"`
	Expired                int            `json:"expired"`
	RemindersToday         int            `json:"remindersToday"`
	RemindersThisWeek      int            `json:"remindersThisWeek"`
	ExpiryBuckets          []ExpiryBucket `json:"expiryBuckets"`
	GeneratedAt            time.Time      `json:"generatedAt"`
}

var bucketRanges = []struct {
	from, to int
}{
	{0, 30},
	{31, 60},
	{61, 90},
}
