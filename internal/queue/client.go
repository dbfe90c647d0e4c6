package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/config"
	"github.com/anggapriyatmoko/ichibot-production-app-sub000/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault

	catalogSyncUniqueTTL = 10 * time.Minute
)

// ErrQueueDisabled 队列未启用
var ErrQueueDisabled = errors.New("queue disabled")

// ErrDuplicateTask 相同任务仍在队列中
var ErrDuplicateTask = errors.New("duplicate task")

// Client 队列客户端封装
type Client struct {
	client       *asynq.Client
	enabled      bool
	defaultQueue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, defaultQueue: DefaultQueue}, nil
	}
	opt := buildRedisOpt(cfg)
	client := asynq.NewClient(opt)
	return &Client{
		client:       client,
		enabled:      true,
		defaultQueue: DefaultQueue,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueCatalogSync 推送全量同步任务，同一时间只允许一个排队
func (c *Client) EnqueueCatalogSync(payload CatalogSyncPayload) (string, error) {
	if !c.Enabled() {
		return "", ErrQueueDisabled
	}
	task, err := NewCatalogSyncTask(payload)
	if err != nil {
		return "", err
	}
	info, err := c.client.Enqueue(task,
		asynq.Queue(c.defaultQueue),
		asynq.MaxRetry(0),
		asynq.Unique(catalogSyncUniqueTTL),
	)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return "", ErrDuplicateTask
	}
	if err != nil {
		return "", fmt.Errorf("enqueue catalog sync: %w", err)
	}
	return info.ID, nil
}

// EnqueueCatalogSyncOne 推送单个商品同步任务
func (c *Client) EnqueueCatalogSyncOne(payload CatalogSyncOnePayload, opts ...asynq.Option) (string, error) {
	if !c.Enabled() {
		return "", ErrQueueDisabled
	}
	task, err := NewCatalogSyncOneTask(payload)
	if err != nil {
		return "", err
	}
	options := append([]asynq.Option{asynq.Queue(c.defaultQueue), asynq.MaxRetry(3)}, opts...)
	info, err := c.client.Enqueue(task, options...)
	if err != nil {
		return "", fmt.Errorf("enqueue catalog sync one: %w", err)
	}
	return info.ID, nil
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 2
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
