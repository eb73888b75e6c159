package repositories_mongo

import (
	"context"
	stderrors "errors"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/errors"
	"github.com/drujensen/wearables/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoChannelRepository stores one document per channel with the
// transcript embedded.
type MongoChannelRepository struct {
	collection *mongo.Collection
}

func NewMongoChannelRepository(collection *mongo.Collection) *MongoChannelRepository {
	return &MongoChannelRepository{
		collection: collection,
	}
}

func (r *MongoChannelRepository) CreateChannel(ctx context.Context, channel *entities.Channel) error {
	if channel.Messages == nil {
		channel.Messages = make([]entities.Message, 0)
	}
	if _, err := r.collection.InsertOne(ctx, channel); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.ValidationErrorf("channel already exists: %s", channel.ID)
		}
		return errors.InternalErrorf("failed to create channel: %v", err)
	}
	channel.SyncCount()
	return nil
}

func (r *MongoChannelRepository) GetChannel(ctx context.Context, id string) (*entities.Channel, error) {
	var channel entities.Channel
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&channel)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.NotFoundErrorf("Channel not found: %s", id)
	}
	if err != nil {
		return nil, errors.InternalErrorf("failed to get channel: %v", err)
	}

	channel.SyncCount()
	return &channel, nil
}

func (r *MongoChannelRepository) ListChannels(ctx context.Context) ([]*entities.Channel, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.InternalErrorf("failed to list channels: %v", err)
	}
	defer cursor.Close(ctx)

	channels := make([]*entities.Channel, 0)
	for cursor.Next(ctx) {
		var channel entities.Channel
		if err := cursor.Decode(&channel); err != nil {
			return nil, errors.InternalErrorf("failed to decode channel: %v", err)
		}
		channel.SyncCount()
		channels = append(channels, &channel)
	}

	if err := cursor.Err(); err != nil {
		return nil, errors.InternalErrorf("failed to list channels: %v", err)
	}

	return channels, nil
}

func (r *MongoChannelRepository) DeleteChannel(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.InternalErrorf("failed to delete channel: %v", err)
	}
	if result.DeletedCount == 0 {
		return errors.NotFoundErrorf("Channel not found: %s", id)
	}

	return nil
}

func (r *MongoChannelRepository) AddMessage(ctx context.Context, channelID string, message *entities.Message) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": channelID},
		bson.M{"$push": bson.M{"messages": message}})
	if err != nil {
		return errors.InternalErrorf("failed to add message: %v", err)
	}
	if result.MatchedCount == 0 {
		return errors.NotFoundErrorf("Channel not found: %s", channelID)
	}

	return nil
}

func (r *MongoChannelRepository) GetMessages(ctx context.Context, channelID string) ([]entities.Message, error) {
	channel, err := r.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel.Messages == nil {
		return make([]entities.Message, 0), nil
	}
	return channel.Messages, nil
}

func (r *MongoChannelRepository) ClearMessages(ctx context.Context, channelID string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": channelID},
		bson.M{"$set": bson.M{"messages": bson.A{}}})
	if err != nil {
		return errors.InternalErrorf("failed to clear messages: %v", err)
	}
	if result.MatchedCount == 0 {
		return errors.NotFoundErrorf("Channel not found: %s", channelID)
	}

	return nil
}

var _ interfaces.ChannelRepository = (*MongoChannelRepository)(nil)
