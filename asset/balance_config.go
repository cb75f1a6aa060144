package asset

// DefaultBalanceConfig returns the default balance TOML configuration
const DefaultBalanceConfig = `
# Session progression
[session]
max_fever = 4         # failures that end a session
rounds_per_level = 5  # rounds per difficulty level

# Intermission timings, milliseconds
[pregame]
countdown_ms = 4000
hint_display_ms = 4000  # after intermission start
hint_destroy_ms = 2000  # after the hint is shown

[engine]
strict = false  # panic on sequencing faults instead of dropping the batch
`
