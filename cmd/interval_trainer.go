package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lowaak/interval-trainer/internal/platform"
	"github.com/lowaak/interval-trainer/internal/trainer"
)

func defaultDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".interval-trainer")
}

func main() {
	dataDir := defaultDataDir()
	stateFile := pflag.String("state-file", filepath.Join(dataDir, "state.json"), "settings and workout log state file")
	healthFile := pflag.String("health-file", filepath.Join(dataDir, "health.jsonl"), "local health store file")
	logFile := pflag.String("log-file", filepath.Join(dataDir, "interval-trainer.log"), "rotating log file")
	pflag.Parse()

	logger := log.New(&lumberjack.Logger{
		Filename:   *logFile,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
	}, "", log.LstdFlags)
	logger.Printf("interval-trainer starting")

	store := platform.NewViperStore(*stateFile, logger)
	settings := trainer.LoadSettings(store, logger)
	workoutLog := trainer.NewWorkoutLog(store, logger)

	alarm := platform.NewTerminalAlarm(os.Stdout, logger)
	notifier := platform.NewCronNotifier(func(intent trainer.NotificationIntent) {
		fmt.Printf("\n*** %s — %s ***\n> ", intent.Title, intent.Body)
		alarm.Play(trainer.SoundIntervalChange)
	}, logger)
	defer notifier.Stop()
	health := platform.NewFileHealth(*healthFile, logger)
	gate := trainer.NewPermissionGate(notifier, health, settings, logger)

	warmup, highIntensity, rest, repeat := settings.PlanParams()
	engine := trainer.NewTimerEngine(trainer.BuildPlan(warmup, highIntensity, rest, repeat), logger)
	ctrl := trainer.NewSessionController(engine, settings, workoutLog, gate, notifier, health, alarm, logger)
	defer ctrl.Shutdown()

	ctrl.RescheduleReminders()

	fmt.Println("interval-trainer — type 'help' for commands")
	printStatus(ctrl.State())

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		if !dispatch(ctrl, settings, workoutLog, strings.Fields(scanner.Text())) {
			break
		}
		fmt.Print("> ")
	}
	logger.Printf("interval-trainer exiting")
}

// dispatch runs one command line; returns false to quit
func dispatch(ctrl *trainer.SessionController, settings *trainer.Settings, workoutLog *trainer.WorkoutLog, args []string) bool {
	if len(args) == 0 {
		return true
	}
	switch args[0] {
	case "start":
		ctrl.Start()
	case "pause":
		ctrl.Pause()
	case "skip":
		ctrl.Skip()
	case "reset":
		ctrl.Reset()
	case "resume":
		// Simulates the host waking from suspension
		ctrl.HandleResume()
	case "status":
	case "confirm":
		workoutType := trainer.DefaultWorkoutType
		notes := ""
		if len(args) > 1 {
			t, ok := trainer.ParseWorkoutType(args[1])
			if !ok {
				t = trainer.WorkoutTypeOther
			}
			workoutType = t
		}
		if len(args) > 2 {
			notes = strings.Join(args[2:], " ")
		}
		if err := ctrl.ConfirmCompletedWorkout(workoutType, notes); err != nil {
			fmt.Println(err)
		}
	case "log":
		for _, e := range workoutLog.Entries() {
			info, _ := trainer.GetWorkoutTypeInfo(e.WorkoutType)
			fmt.Printf("%s  %-14s %s\n", e.CompletedAt.Format("2006-01-02 15:04"), info.DisplayName, e.Notes)
		}
		return true
	case "remind":
		return dispatchRemind(ctrl, settings, args[1:])
	case "set":
		return dispatchSet(ctrl, settings, args[1:])
	case "help":
		fmt.Println("commands: start pause skip reset resume status confirm [type] [notes...]")
		fmt.Println("          log  remind <on|off|every N|weekday N>  set <warmup|work|rest|intervals> N  quit")
		return true
	case "quit", "exit":
		return false
	default:
		fmt.Printf("unknown command %q (try 'help')\n", args[0])
		return true
	}
	printStatus(ctrl.State())
	return true
}

func dispatchRemind(ctrl *trainer.SessionController, settings *trainer.Settings, args []string) bool {
	if len(args) == 0 {
		cfg := settings.Reminder()
		fmt.Printf("reminders: enabled=%v mode=%s everyXDays=%d weekday=%d\n", cfg.Enabled, cfg.Mode, cfg.EveryXDays, cfg.Weekday)
		return true
	}
	switch args[0] {
	case "on":
		ctrl.SetReminderEnabled(true)
	case "off":
		ctrl.SetReminderEnabled(false)
	case "every":
		if len(args) > 1 {
			if n, err := strconv.Atoi(args[1]); err == nil {
				ctrl.SetReminderMode(trainer.ReminderModeEveryXDays)
				ctrl.SetReminderEveryXDays(n)
			}
		}
	case "weekday":
		if len(args) > 1 {
			if n, err := strconv.Atoi(args[1]); err == nil {
				ctrl.SetReminderMode(trainer.ReminderModeWeeklyOnWeekday)
				ctrl.SetReminderWeekday(n)
			}
		}
	default:
		fmt.Printf("unknown remind option %q\n", args[0])
	}
	cfg := settings.Reminder()
	fmt.Printf("reminders: enabled=%v mode=%s everyXDays=%d weekday=%d\n", cfg.Enabled, cfg.Mode, cfg.EveryXDays, cfg.Weekday)
	return true
}

func dispatchSet(ctrl *trainer.SessionController, settings *trainer.Settings, args []string) bool {
	if len(args) < 2 {
		fmt.Println("usage: set <warmup|work|rest|intervals> N (durations in seconds)")
		return true
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Printf("not a number: %q\n", args[1])
		return true
	}
	switch args[0] {
	case "warmup":
		settings.SetWarmupSeconds(n)
	case "work":
		settings.SetHighIntensitySeconds(n)
	case "rest":
		settings.SetRestSeconds(n)
	case "intervals":
		settings.SetNumberOfIntervals(n)
	default:
		fmt.Printf("unknown setting %q\n", args[0])
		return true
	}
	// Writes take effect through an explicit rebuild, never implicitly
	ctrl.ApplyIntervalSettings()
	printStatus(ctrl.State())
	return true
}

func printStatus(st trainer.TimerState) {
	if len(st.Plan) == 0 {
		fmt.Println("no plan loaded")
		return
	}
	current := st.Plan[st.CurrentIndex]
	fmt.Printf("[%s] interval %d/%d %q — %v remaining (plan total %v)\n",
		st.Status, st.CurrentIndex+1, len(st.Plan), current.Name, st.TimeRemaining.Round(time.Second), st.Plan.TotalDuration())
}
