package tui

// loadMoreDoneMsg reports that the simulated page latency elapsed. seq
// identifies the request so a stale timer cannot complete a newer one.
type loadMoreDoneMsg struct {
	seq int
}

// repoChangedMsg reports a repository mutation.
type repoChangedMsg struct{}

// clearStatusMsg expires a status line message.
type clearStatusMsg struct {
	seq int
}
