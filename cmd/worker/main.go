package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reviewscope/backend/internal/db"
	"github.com/reviewscope/backend/internal/queue"
	"github.com/reviewscope/backend/internal/util"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/reviewscope/backend/pkg/emotion"
	oll "github.com/reviewscope/backend/pkg/emotion/ollama"
	oai "github.com/reviewscope/backend/pkg/emotion/openai"
	"github.com/reviewscope/backend/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debug := util.GetEnvBool("DEBUG", false)
	logger.Init(debug)

	adapter := util.GetEnv("EMOTION_ADAPTER")
	var classifier emotion.Classifier

	switch adapter {
	case "ollama":
		client, err := oll.NewClient(oll.NewClientParams{
			ChatModel:      util.GetEnv("EMOTION_CHAT_MODEL"),
			EmbeddingModel: util.GetEnv("EMOTION_EMBED_MODEL"),

			BaseURL: util.GetEnv("EMOTION_CHAT_URL"),
			APIKey:  util.GetEnv("EMOTION_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("EMOTION_PARALLEL_REQ", 15)),
		})
		if err != nil {
			logger.Fatal("Could not create Ollama client", "err", err)
		}
		classifier = client
	default:
		classifier = oai.NewClient(oai.NewClientParams{
			ChatModel:      util.GetEnv("EMOTION_CHAT_MODEL"),
			EmbeddingModel: util.GetEnv("EMOTION_EMBED_MODEL"),

			ChatURL:      util.GetEnv("EMOTION_CHAT_URL"),
			ChatKey:      util.GetEnv("EMOTION_CHAT_KEY"),
			EmbeddingURL: util.GetEnv("EMOTION_EMBED_URL"),
			EmbeddingKey: util.GetEnv("EMOTION_EMBED_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("EMOTION_PARALLEL_REQ", 15)),
		})
	}

	pgConn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()
	pgConn.Config().AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.AnalyzeQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	requeueStaleJobs(ctx, pgConn, ch)

	logger.Info("Listening for messages")

	// Single consumer channel with prefetch=1 so only one analysis job
	// runs at a time.
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	err = consumerCh.Qos(1, 0, true)
	if err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.AnalyzeQueue,
		fmt.Sprintf("%s_consumer", queue.AnalyzeQueue),
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.AnalyzeQueue, "err", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Info("Message channel closed", "queue", queue.AnalyzeQueue)
					return
				}

				startTime := time.Now()
				logger.Info("Received message", "queue", queue.AnalyzeQueue)

				processingErr := queue.ProcessAnalyzeMessage(ctx, classifier, pgConn, string(msg.Body))

				// If there was an error send to retry or dead-letter, otherwise ack the message
				if processingErr != nil {
					logger.Error("Error processing message", "queue", queue.AnalyzeQueue, "err", processingErr)
					handleProcessingError(consumerCh, msg, queue.AnalyzeQueue)
				} else {
					if err := msg.Ack(false); err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					logger.Info("Message processed successfully", "queue", queue.AnalyzeQueue)
				}

				processingDuration := time.Since(startTime)
				hours := int(processingDuration.Hours())
				minutes := int(processingDuration.Minutes()) % 60
				seconds := int(processingDuration.Seconds()) % 60
				logger.Info(
					"Processing time",
					"duration", fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds),
				)
				logger.Info("Waiting for next message")
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}

// requeueStaleJobs puts jobs that were claimed by a worker that died back
// onto the queue.
func requeueStaleJobs(ctx context.Context, conn *pgxpool.Pool, ch *amqp.Channel) {
	staleAfter := time.Duration(util.GetEnvNumeric("ANALYSIS_STALE_MINUTES", 30)) * time.Minute

	q := db.New(conn)
	stale, err := q.GetStaleAnalysisJobs(ctx, staleAfter)
	if err != nil {
		logger.Warn("Failed to look up stale analysis jobs", "err", err)
		return
	}

	for _, job := range stale {
		if err := q.ResetAnalysisJobToPending(ctx, job.PublicID); err != nil {
			logger.Warn("Failed to reset stale analysis job", "job_id", job.PublicID, "err", err)
			continue
		}

		msg, err := json.Marshal(queue.AnalyzeJobMsg{
			JobID:      job.PublicID,
			ParentASIN: job.ParentASIN,
		})
		if err != nil {
			logger.Warn("Failed to marshal stale job message", "job_id", job.PublicID, "err", err)
			continue
		}
		if err := queue.PublishFIFO(ch, queue.AnalyzeQueue, msg); err != nil {
			logger.Warn("Failed to requeue stale analysis job", "job_id", job.PublicID, "err", err)
			continue
		}
		logger.Info("Requeued stale analysis job", "job_id", job.PublicID, "parent_asin", job.ParentASIN)
	}
}

func handleProcessingError(ch *amqp.Channel, msg amqp.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	// If message has been retried 10 times, send to dead-letter
	if retries >= 10 {
		dlqName := queueName + "_dlq"
		logger.Info("Sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp.Publishing{
				ContentType: "text/plain",
				Body:        msg.Body,
				Headers:     msg.Headers,
			},
		)
		if pubErr != nil {
			logger.Error("Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	retryName := queueName + "_retry"
	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-retries"] = retries + 1

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp.Publishing{
			ContentType: "text/plain",
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if pubErr != nil {
		logger.Error("Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
