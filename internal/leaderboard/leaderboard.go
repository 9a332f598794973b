package leaderboard

// top N shown publicly; ties share the count and sort by username
const topLimit = 25

type Entry struct {
	Username string `json:"username"`
	Logs     int    `json:"logs"`
}
