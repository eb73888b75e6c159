package repositories_mongo

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/errors"
	"github.com/drujensen/wearables/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoConversationRepository struct {
	collection *mongo.Collection
}

func NewMongoConversationRepository(collection *mongo.Collection) *MongoConversationRepository {
	return &MongoConversationRepository{
		collection: collection,
	}
}

func (r *MongoConversationRepository) GetConversation(ctx context.Context, channelID string) ([]*entities.Message, error) {
	var conversation entities.Conversation
	err := r.collection.FindOne(ctx, bson.M{"_id": channelID}).Decode(&conversation)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return make([]*entities.Message, 0), nil
	}
	if err != nil {
		return nil, errors.InternalErrorf("failed to get conversation: %v", err)
	}

	return conversation.Messages, nil
}

func (r *MongoConversationRepository) SaveConversation(ctx context.Context, channelID string, messages []*entities.Message) error {
	conversation := &entities.Conversation{
		ChannelID: channelID,
		Messages:  messages,
		UpdatedAt: time.Now(),
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": channelID}, conversation, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.InternalErrorf("failed to save conversation: %v", err)
	}

	return nil
}

func (r *MongoConversationRepository) DeleteConversation(ctx context.Context, channelID string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": channelID}); err != nil {
		return errors.InternalErrorf("failed to delete conversation: %v", err)
	}

	return nil
}

var _ interfaces.ConversationRepository = (*MongoConversationRepository)(nil)
