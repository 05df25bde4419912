package mongodb

import (
	"commentadmin/app/comment"
	"commentadmin/domain"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names follow the pluralised model names of the existing
// database.
const (
	commentsCollection       = "comments"
	itemsCollection          = "items"
	itemGuidesCollection     = "item_guides"
	itemRulesCollection      = "item_rules"
	rulesCollection          = "rules"
	systemFailuresCollection = "system_failures"
	systemLogsCollection     = "system_logs"
)

type MongoRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoRepository(ctx context.Context, uri, database string) (*MongoRepository, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(15).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(2*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	zap.L().Info("MongoDB connected", zap.String("database", database))

	return &MongoRepository{
		client: client,
		db:     client.Database(database),
	}, nil
}

func (r *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *MongoRepository) CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	c.ID = ""

	res, err := r.db.Collection(commentsCollection).InsertOne(ctx, c)
	if err != nil {
		return domain.Comment{}, err
	}

	c.ID = idString(res.InsertedID)
	return c, nil
}

func (r *MongoRepository) FindComments(ctx context.Context, filter comment.CommentFilter) ([]domain.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if filter.Skip > 0 {
		opts.SetSkip(filter.Skip)
	}
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.db.Collection(commentsCollection).Find(ctx, scoreFilter(filter.Score), opts)
	if err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *MongoRepository) CountComments(ctx context.Context, score int) (int, error) {
	count, err := r.db.Collection(commentsCollection).CountDocuments(ctx, scoreFilter(score))
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *MongoRepository) CountCommentsByScore(ctx context.Context) ([]domain.ScoreCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$score"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.db.Collection(commentsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	groups := make([]domain.ScoreCount, 0)
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *MongoRepository) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	var item domain.Item
	return findOne(ctx, r.db.Collection(itemsCollection), bson.D{{Key: "item_id", Value: itemID}}, &item)
}

func (r *MongoRepository) GetItemGuide(ctx context.Context, itemGuideID string) (*domain.ItemGuide, error) {
	var guide domain.ItemGuide
	return findOne(ctx, r.db.Collection(itemGuidesCollection), bson.D{{Key: "item_guide_id", Value: itemGuideID}}, &guide)
}

func (r *MongoRepository) GetItemRule(ctx context.Context, itemRuleID string) (*domain.ItemRule, error) {
	var itemRule domain.ItemRule
	return findOne(ctx, r.db.Collection(itemRulesCollection), bson.D{{Key: "item_rule_id", Value: itemRuleID}}, &itemRule)
}

func (r *MongoRepository) GetItemRuleByCreateTime(ctx context.Context, createTime string) (*domain.ItemRule, error) {
	var itemRule domain.ItemRule
	return findOne(ctx, r.db.Collection(itemRulesCollection), bson.D{{Key: "create_time", Value: createTime}}, &itemRule)
}

func (r *MongoRepository) GetRule(ctx context.Context, ruleID string) (*domain.Rule, error) {
	var rule domain.Rule
	return findOne(ctx, r.db.Collection(rulesCollection), bson.D{{Key: "rule_id", Value: ruleID}}, &rule)
}

func (r *MongoRepository) CreateFailure(ctx context.Context, f domain.SystemFailure) (domain.SystemFailure, error) {
	f.ID = ""

	res, err := r.db.Collection(systemFailuresCollection).InsertOne(ctx, f)
	if err != nil {
		return domain.SystemFailure{}, err
	}

	f.ID = idString(res.InsertedID)
	return f, nil
}

func (r *MongoRepository) GetFailures(ctx context.Context) ([]domain.SystemFailure, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.db.Collection(systemFailuresCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	failures := make([]domain.SystemFailure, 0)
	if err := cursor.All(ctx, &failures); err != nil {
		return nil, err
	}

	return failures, nil
}

func (r *MongoRepository) CreateSystemLog(ctx context.Context, l domain.SystemLog) (domain.SystemLog, error) {
	l.ID = ""

	res, err := r.db.Collection(systemLogsCollection).InsertOne(ctx, l)
	if err != nil {
		return domain.SystemLog{}, err
	}

	l.ID = idString(res.InsertedID)
	return l, nil
}

func (r *MongoRepository) GetSystemLogs(ctx context.Context) ([]domain.SystemLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.db.Collection(systemLogsCollection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	logs := make([]domain.SystemLog, 0)
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}

func scoreFilter(score int) bson.D {
	if score == 0 {
		return bson.D{}
	}
	return bson.D{{Key: "score", Value: bson.D{{Key: "$eq", Value: score}}}}
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.D, out *T) (*T, error) {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func idString(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
