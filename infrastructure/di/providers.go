package di

import (
	"context"

	"trevelo-backend/application/ports"
	"trevelo-backend/application/services"
	"trevelo-backend/infrastructure/config"
	"trevelo-backend/infrastructure/messaging/eventbridge"
	"trevelo-backend/infrastructure/openai"
	"trevelo-backend/infrastructure/persistence/abstractions"
	dynamodbstore "trevelo-backend/infrastructure/persistence/dynamodb"
	"trevelo-backend/infrastructure/persistence/repository"
	"trevelo-backend/pkg/auth"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/google/wire"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	Store            abstractions.Store
	JobRepo          ports.JobRepository
	GroupRepo        ports.GroupRepository
	TripRepo         ports.TripRepository
	VoteRepo         ports.VoteRepository
	UserRepo         ports.UserRepository
	EventPublisher   ports.EventPublisher
	Generator        ports.PlanGenerator
	ItineraryService *services.ItineraryService
	GroupService     *services.GroupService
	TripService      *services.TripService
	VoteService      *services.VoteService
	UserService      *services.UserService
	JWTValidator     *auth.JWTValidator
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideStore,
	ProvideJobRepository,
	ProvideGroupRepository,
	ProvideTripRepository,
	ProvideVoteRepository,
	ProvideUserRepository,
	ProvideEventPublisher,
	ProvideGenerator,
	ProvideItineraryService,
	ProvideGroupService,
	ProvideTripService,
	ProvideVoteService,
	ProvideUserService,
	ProvideJWTValidator,
	wire.Struct(new(Container), "*"),
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideStore creates the single-table store
func ProvideStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) abstractions.Store {
	return dynamodbstore.NewStore(client, cfg.DynamoDBTable, logger)
}

// ProvideJobRepository creates the job repository
func ProvideJobRepository(store abstractions.Store, cfg *config.Config, logger *zap.Logger) ports.JobRepository {
	return repository.NewJobRepository(store, cfg.IndexName, logger)
}

// ProvideGroupRepository creates the group repository
func ProvideGroupRepository(store abstractions.Store, cfg *config.Config, logger *zap.Logger) ports.GroupRepository {
	return repository.NewGroupRepository(store, cfg.IndexName, logger)
}

// ProvideTripRepository creates the trip repository
func ProvideTripRepository(store abstractions.Store, logger *zap.Logger) ports.TripRepository {
	return repository.NewTripRepository(store, logger)
}

// ProvideVoteRepository creates the vote repository
func ProvideVoteRepository(store abstractions.Store, logger *zap.Logger) ports.VoteRepository {
	return repository.NewVoteRepository(store, logger)
}

// ProvideUserRepository creates the user repository
func ProvideUserRepository(store abstractions.Store, logger *zap.Logger) ports.UserRepository {
	return repository.NewUserRepository(store, logger)
}

// ProvideEventPublisher creates an event publisher. Without a configured
// bus the publisher is a no-op, which keeps local development off AWS.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NewNoopPublisher()
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideGenerator creates the OpenAI-backed plan generator
func ProvideGenerator(cfg *config.Config, logger *zap.Logger) ports.PlanGenerator {
	return openai.NewGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
}

// ProvideItineraryService creates the itinerary service
func ProvideItineraryService(
	jobs ports.JobRepository,
	generator ports.PlanGenerator,
	events ports.EventPublisher,
	logger *zap.Logger,
) *services.ItineraryService {
	return services.NewItineraryService(jobs, generator, events, logger)
}

// ProvideGroupService creates the group service
func ProvideGroupService(groups ports.GroupRepository, events ports.EventPublisher, logger *zap.Logger) *services.GroupService {
	return services.NewGroupService(groups, events, logger)
}

// ProvideTripService creates the trip service
func ProvideTripService(trips ports.TripRepository, logger *zap.Logger) *services.TripService {
	return services.NewTripService(trips, logger)
}

// ProvideVoteService creates the vote service
func ProvideVoteService(votes ports.VoteRepository, events ports.EventPublisher, logger *zap.Logger) *services.VoteService {
	return services.NewVoteService(votes, events, logger)
}

// ProvideUserService creates the user service
func ProvideUserService(users ports.UserRepository, logger *zap.Logger) *services.UserService {
	return services.NewUserService(users, logger)
}

// ProvideJWTValidator creates the bearer token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
	})
}
