package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"recordstore/internal/domain"
)

type Config struct {
	HTTPAddr     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64

	IDPolicy               string
	MalformedPayloadPolicy string

	MySQLDSN   string
	SQLitePath string

	RabbitMQURL         string
	RabbitExchange      string
	RabbitQueue         string
	RabbitRoutingKey    string
	RabbitConsumerTag   string
	RabbitPublishPrefix string

	SSEHeartbeat time.Duration
	MetricsAddr  string

	OTELServiceName string
	OTLPEndpoint    string
	OTLPInsecure    bool
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:               ":3000",
		IDPolicy:               string(domain.IDPolicyLength),
		MalformedPayloadPolicy: string(domain.MalformedPayloadRespond),
		RabbitExchange:         "records",
		RabbitQueue:            "records.ingest",
		RabbitRoutingKey:       "ingest.record",
		RabbitConsumerTag:      "record-store-consumer",
		RabbitPublishPrefix:    "record",
		SSEHeartbeat:           15 * time.Second,
		OTELServiceName:        "record-store",
		OTLPInsecure:           true,
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}

	if v := os.Getenv("ID_POLICY"); domain.IsValidIDPolicy(v) {
		cfg.IDPolicy = v
	}
	if v := os.Getenv("MALFORMED_PAYLOAD_POLICY"); domain.IsValidMalformedPayloadPolicy(v) {
		cfg.MalformedPayloadPolicy = v
	}
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxBodyBytes = n
		}
	}
	if v := os.Getenv("READ_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReadTimeout = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("WRITE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WriteTimeout = time.Duration(n) * time.Second
		}
	}

	cfg.MySQLDSN = os.Getenv("MYSQL_DSN")
	cfg.SQLitePath = os.Getenv("SQLITE_PATH")
	cfg.RabbitMQURL = os.Getenv("RABBITMQ_URL")
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	if v := os.Getenv("RABBITMQ_EXCHANGE"); v != "" {
		cfg.RabbitExchange = v
	}
	if v := os.Getenv("RABBITMQ_QUEUE"); v != "" {
		cfg.RabbitQueue = v
	}
	if v := os.Getenv("RABBITMQ_ROUTING_KEY"); v != "" {
		cfg.RabbitRoutingKey = v
	}
	if v := os.Getenv("RABBITMQ_CONSUMER_TAG"); v != "" {
		cfg.RabbitConsumerTag = v
	}
	if v := os.Getenv("RABBITMQ_PUBLISH_PREFIX"); v != "" {
		cfg.RabbitPublishPrefix = v
	}

	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		cfg.OTELServiceName = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_INSECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.OTLPInsecure = b
		}
	}

	if v := os.Getenv("SSE_HEARTBEAT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SSEHeartbeat = time.Duration(n) * time.Second
		}
	}

	return cfg
}

// Port returns the port part of HTTPAddr, or the whole address when it has none.
func (c *Config) Port() string {
	for i := len(c.HTTPAddr) - 1; i >= 0; i-- {
		if c.HTTPAddr[i] == ':' {
			return c.HTTPAddr[i+1:]
		}
	}
	return c.HTTPAddr
}
