package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"heatmap-telegram-bot/config"
	"heatmap-telegram-bot/internal/capture"
	"heatmap-telegram-bot/internal/database"
	"heatmap-telegram-bot/internal/delivery"
	"heatmap-telegram-bot/internal/price"
	"heatmap-telegram-bot/internal/scheduler"
	"heatmap-telegram-bot/internal/telegram"
	"heatmap-telegram-bot/internal/timeframe"
	"heatmap-telegram-bot/internal/web"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/leonelquinteros/gotext"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type BotMetrics struct {
	CommandsProcessed prometheus.Counter
	MessagesHandled   prometheus.Counter
	Mutex             sync.Mutex
}

var (
	metrics = NewBotMetrics()
)

func init() {
	config.InitConfig()
	setupLogging()
}

func NewBotMetrics() *BotMetrics {
	metrics := &BotMetrics{
		CommandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatmap",
			Subsystem: "telegram_bot",
			Name:      "commands_processed",
			Help:      "The total number of processed commands",
		}),
		MessagesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatmap",
			Subsystem: "telegram_bot",
			Name:      "messages_handled",
			Help:      "The total number of handled messages",
		}),
	}

	prometheus.MustRegister(metrics.CommandsProcessed)
	prometheus.MustRegister(metrics.MessagesHandled)

	return metrics
}

func main() {
	gotext.Configure("locales", strings.ToLower(config.GetString("lang")), "default")

	token := config.GetString("telegram_bot_token")
	channelID := config.GetInt64("telegram_channel_id")
	if token == "" || channelID == 0 {
		log.Fatal("FATAL: TELEGRAM_BOT_TOKEN and TELEGRAM_CHANNEL_ID must be set")
	}

	defaultPeriod, ok := timeframe.Parse(config.GetString("default_timeframe"))
	if !ok {
		log.Fatalf("Invalid DEFAULT_TIMEFRAME %q, use one of: %s",
			config.GetString("default_timeframe"), timeframe.AllowedList())
	}

	if err := database.InitDB(config.GetString("db_path")); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	LoadCountersFromDB()

	acquirer, err := capture.FromConfig()
	if err != nil {
		log.Fatalf("Failed to configure capture strategy: %v", err)
	}
	log.Infof("Capture strategy: %s", config.GetString("capture_strategy"))

	intervalHours := config.GetInt("schedule_interval_hours")

	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:          token,
		Debug:          config.GetBool("debug"),
		UpdatesTimeout: 60,
		DefaultPeriod:  defaultPeriod,
		IntervalHours:  intervalHours,
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	orchestrator := delivery.NewOrchestrator(acquirer, price.NewService(config.GetString("price_api_key")), bot)
	bot.Deliverer = orchestrator

	handle, err := scheduler.Start(intervalHours, func() {
		log.Infof("Running scheduled task for %s heatmap", defaultPeriod)
		_ = orchestrator.Deliver(context.Background(), delivery.Request{
			ChatID: channelID,
			Period: defaultPeriod,
		})
	})
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	updates, err := bot.GetUpdatesChannel()
	if err != nil {
		log.Fatalf("Failed to get updates channel: %v", err)
	}

	go handleUpdates(bot, updates)

	go func() {
		for {
			time.Sleep(5 * time.Minute)
			SaveCountersToDB()
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		handle.Stop()
		SaveCountersToDB()
		database.CloseDB()
		log.Println("Counters saved, shutting down...")
		os.Exit(0)
	}()

	if err := web.NewServer(config.GetInt("http_port"), handle).Start(); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}
}

func setupLogging() {
	level, err := log.ParseLevel(config.GetString("log_level"))
	if err != nil {
		level = log.InfoLevel
	}
	if config.GetBool("debug") {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   config.GetString("log_file"),
		MaxSize:    20, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}))

	log.Debug("Starting heatmap telegram bot...")
}

func handleUpdates(bot *telegram.Bot, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		if update.Message == nil || !update.Message.IsCommand() {
			log.Debug("Received non-message or non-command")
			continue
		}

		metrics.MessagesHandled.Inc()
		handleCommand(bot, update)
	}
}

func handleCommand(bot *telegram.Bot, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
		}
	}()

	text := bot.HandleUpdate(update)
	if text == "" {
		// The handler replied on its own.
		metrics.CommandsProcessed.Inc()
		return
	}

	err := bot.SendMessage(telegram.Message{
		ChatID:    update.Message.Chat.ID,
		Text:      text,
		MessageID: update.Message.MessageID,
	})

	if err != nil {
		log.Errorf("Failed to send message: %v", err)
	} else {
		metrics.CommandsProcessed.Inc()
	}
}

func LoadCountersFromDB() {
	metrics.Mutex.Lock()
	defer metrics.Mutex.Unlock()

	commandsProcessed, _ := database.GetCounter("commands_processed")
	messagesHandled, _ := database.GetCounter("messages_handled")

	metrics.CommandsProcessed.Add(commandsProcessed)
	metrics.MessagesHandled.Add(messagesHandled)

	log.Debug("Counters loaded from database.")
}

func SaveCountersToDB() {
	metrics.Mutex.Lock()
	defer metrics.Mutex.Unlock()

	database.SaveCounter("commands_processed", GetMetricValue(metrics.CommandsProcessed))
	database.SaveCounter("messages_handled", GetMetricValue(metrics.MessagesHandled))

	log.Debug("Counters saved to database.")
}

func GetMetricValue(metric prometheus.Collector) float64 {
	var metricValue float64
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Printf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		metricValue = metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		metricValue = metricProto.Gauge.GetValue()
	}
	return metricValue
}
