package config

import "time"

// Interval durations.
const (
	WorkDuration       = 25 * time.Minute
	ShortBreakDuration = 5 * time.Minute
	LongBreakDuration  = 30 * time.Minute
	TickInterval       = time.Second
)

// Break cadence. A long break is proposed once LongBreakEvery short breaks
// have been taken since the last long break. CadenceWindow bounds how many
// recent intervals are examined; zero means no bound.
const (
	LongBreakEvery = 4
	CadenceWindow  = 0
)

// Display strings.
const (
	NotStartedLabel   = "Not started"
	NotifyTitle       = "Task Ended!"
	CountdownFallback = "00:00"
)

// Application settings.
const (
	AppName          = "taskspill"
	DBFileName       = "taskspill.db"
	LogFileName      = "taskspill.log"
	SettingsFileName = "settings.yaml"
	EnvPrefix        = "TASKSPILL_"
	SchemaVersion    = 1
)
