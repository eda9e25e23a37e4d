package graph

// Member is a user vertex reached by a network traversal.
// Degree is the minimal graph distance from the start user
// (0 = self, 1 = direct connection).
type Member struct {
	UserID int64
	Degree int
}

// Connection is an edge between two users in the social graph.
type Connection struct {
	FromUserID int64
	ToUserID   int64
	Source     string // how the connection was established, e.g. "invite", "import"
}
