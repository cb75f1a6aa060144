package asset

// DefaultScreenFSMConfig returns the default screen flow FSM TOML configuration
const DefaultScreenFSMConfig = `
initial = "Splash"

# === Screen flow ===

[states.Splash]
on_enter = [
    { action = "ShowScreen", screen = "splash" },
]
transitions = [
    { trigger = "Tick", target = "Title", guard = "StateTimeExceeds", guard_args = { ms = 1500 } },
    { trigger = "EventSessionStart", target = "Gameplay" },
]

[states.Title]
on_enter = [
    { action = "ShowScreen", screen = "title" },
]
transitions = [
    { trigger = "EventSessionStart", target = "Gameplay" },
]

# Groups the screens that belong to a running or finished session
[states.Session]
transitions = [
    { trigger = "EventSessionQuit", target = "Title" },
]

[states.Gameplay]
parent = "Session"
on_enter = [
    { action = "ShowScreen", screen = "gameplay" },
    { action = "SpawnFirst" },
]
on_exit = [
    { action = "EndSession" },
]
transitions = [
    { trigger = "EventSessionOver", target = "PostGame" },
]

[states.PostGame]
parent = "Session"
on_enter = [
    { action = "ShowScreen", screen = "post_game" },
]
transitions = [
    { trigger = "EventSessionRestart", target = "Gameplay" },
    # Idle post-game falls back to the title screen
    { trigger = "Tick", target = "Title", guard = "StateTimeExceeds", guard_args = { ms = 60000 } },
]
`
