package config

import "time"

// Default paths and lending policy constants
const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./pustaka.db"

	// DefaultMaxActiveLoans caps how many books a member may hold at once
	DefaultMaxActiveLoans = 3

	// DefaultLoanPeriod is how long a borrowed book may be kept
	DefaultLoanPeriod = 7 * 24 * time.Hour

	// DefaultDailyFine is the late fee in IDR per day past the due date
	DefaultDailyFine int64 = 1000

	// DefaultLeaderboardSize is the number of entries per community leaderboard
	DefaultLeaderboardSize = 5
)
