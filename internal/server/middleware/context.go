package middleware

import (
	"github.com/reviewscope/backend/internal/util"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/reviewscope/backend/pkg/emotion"
	oll "github.com/reviewscope/backend/pkg/emotion/ollama"
	oai "github.com/reviewscope/backend/pkg/emotion/openai"
	"github.com/reviewscope/backend/pkg/logger"
)

type AppUser struct {
	UserID      int64
	Role        string
	Permissions []string
}

type App struct {
	DBConn         *pgxpool.Pool
	Queue          *amqp091.Channel
	Key            *keyfunc.Keyfunc
	S3             *s3.Client
	Classifier     emotion.Classifier
	MasterAPIKey   string
	MasterUserID   int64
	MasterUserRole string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

// NewClassifier builds the emotion inference client selected by the
// EMOTION_ADAPTER environment variable.
func NewClassifier() emotion.Classifier {
	adapter := util.GetEnv("EMOTION_ADAPTER")

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
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return oai.NewClient(oai.NewClientParams{
			ChatModel:      util.GetEnv("EMOTION_CHAT_MODEL"),
			EmbeddingModel: util.GetEnv("EMOTION_EMBED_MODEL"),

			ChatURL:      util.GetEnv("EMOTION_CHAT_URL"),
			ChatKey:      util.GetEnv("EMOTION_CHAT_KEY"),
			EmbeddingURL: util.GetEnv("EMOTION_EMBED_URL"),
			EmbeddingKey: util.GetEnv("EMOTION_EMBED_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("EMOTION_PARALLEL_REQ", 15)),
		})
	}
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
