package app

// Services bundles the assessment use cases over one set of repositories.
type Services struct {
	Catalog     *Catalog
	Results     *ResultStore
	Grader      *Grader
	Leaderboard *Leaderboard
	Feed        *LeaderboardFeed
}

// NewServices wires the components; the leaderboard feed is always the last listener.
func NewServices(tests TestRepository, results ResultRepository, profiles ProfileDirectory, listeners ...ResultListener) *Services {
	catalog := NewCatalog(tests)
	store := NewResultStore(results, tests)
	board := NewLeaderboard(store, profiles)
	feed := NewLeaderboardFeed(board)

	all := make([]ResultListener, 0, len(listeners)+1)
	all = append(all, listeners...)
	all = append(all, feed)

	return &Services{
		Catalog:     catalog,
		Results:     store,
		Grader:      NewGrader(catalog, store, all...),
		Leaderboard: board,
		Feed:        feed,
	}
}
