package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/yakirz/sales-gateway/internal/config"
	"github.com/yakirz/sales-gateway/internal/mailer"
	"github.com/yakirz/sales-gateway/internal/model"
	"github.com/yakirz/sales-gateway/internal/queue"
	"github.com/yakirz/sales-gateway/pkg/logger"
	"github.com/yakirz/sales-gateway/pkg/redis"
	"github.com/yakirz/sales-gateway/pkg/worker"
)

// mailer drains the invite queue and hands sends to a worker pool. A job
// is acked once it reaches the pool: a send that fails after that is
// logged, the invite row is still in the database and the admin can
// resend it. Only malformed payloads go back for retry and end up in the
// dead letter stream.
func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("mailer", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "mailer",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	q, err := queue.New(redisAdap, queue.Config{
		Name:              config.Get().QueueName,
		ConsumerGroup:     config.Get().QueueConsumerGroup,
		ConsumerName:      config.Get().QueueConsumerName,
		MaxRetries:        config.Get().QueueMaxRetries,
		VisibilityTimeout: config.Get().QueueVisibilityTimeout,
		PollInterval:      config.Get().QueuePollInterval,
		BatchSize:         config.Get().QueueBatchSize,
		MaxLen:            config.Get().QueueMaxLen,
		EnableDLQ:         config.Get().QueueEnableDLQ,
	})
	if err != nil {
		logger.Error("failed creating invite queue", "error", err)
		return
	}

	var sender mailer.Sender
	if config.Get().MailSMTPAddr != "" {
		sender = mailer.NewSMTPSender(config.Get().MailSMTPAddr, config.Get().MailFromAddr)
	} else {
		logger.Info("MAIL_SMTP_ADDR not set, invites are logged only")
		sender = mailer.LogSender{}
	}

	pool := worker.NewWorkerManager(1024, 8, nil)
	pool.SetWorker(func(workerIndex int, job interface{}) {
		invite, ok := job.(model.InviteEmailJob)
		if !ok {
			return
		}
		if err := sender.Send(invite); err != nil {
			logger.Error("failed to send invite", "error", err, "email", invite.Email)
			return
		}
		logger.Info("invite sent", "email", invite.Email, "worker", workerIndex)
	})

	err = q.Consume(func(ctx context.Context, j *queue.Job) error {
		var invite model.InviteEmailJob
		if err := json.Unmarshal(j.Data, &invite); err != nil {
			return err
		}
		pool.Enqueue(invite)
		return nil
	})
	if err != nil {
		logger.Error("failed to start consuming", "error", err)
		return
	}

	go func() {
		err := pool.Start()
		if err != nil {
			logger.Info("worker pool stopped", "reason", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c

	q.Stop(10 * time.Second)
	pool.Exit()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
