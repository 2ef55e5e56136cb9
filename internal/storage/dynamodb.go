package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI interface for mocking
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoDBStorage implements TripStorage and ModelStorage backed by two
// DynamoDB tables. Trips are keyed by trip_id with a user_id-index GSI;
// models are keyed by the numeric ev_model_id.
type DynamoDBStorage struct {
	client      DynamoDBAPI
	tripsTable  string
	modelsTable string
}

func NewDynamoDBStorage(client DynamoDBAPI, tripsTable, modelsTable string) *DynamoDBStorage {
	return &DynamoDBStorage{
		client:      client,
		tripsTable:  tripsTable,
		modelsTable: modelsTable,
	}
}

func (d *DynamoDBStorage) CreateTrip(ctx context.Context, trip *Trip) error {
	item, err := attributevalue.MarshalMap(trip)
	if err != nil {
		return fmt.Errorf("failed to marshal trip: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tripsTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put trip: %w", err)
	}

	return nil
}

func (d *DynamoDBStorage) GetTrip(ctx context.Context, tripID string) (*Trip, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tripsTable),
		Key: map[string]types.AttributeValue{
			"trip_id": &types.AttributeValueMemberS{Value: tripID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	if result.Item == nil {
		return nil, ErrTripNotFound
	}

	var trip Trip
	err = attributevalue.UnmarshalMap(result.Item, &trip)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal trip: %w", err)
	}

	return &trip, nil
}

func (d *DynamoDBStorage) ListTrips(ctx context.Context, userID string) ([]*Trip, error) {
	var items []map[string]types.AttributeValue

	if userID == "" {
		result, err := d.client.Scan(ctx, &dynamodb.ScanInput{
			TableName: aws.String(d.tripsTable),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan trips: %w", err)
		}
		items = result.Items
	} else {
		result, err := d.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(d.tripsTable),
			IndexName:              aws.String("user_id-index"),
			KeyConditionExpression: aws.String("user_id = :user_id"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":user_id": &types.AttributeValueMemberS{Value: userID},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query trips by user: %w", err)
		}
		items = result.Items
	}

	var trips []*Trip
	for _, item := range items {
		var trip Trip
		err := attributevalue.UnmarshalMap(item, &trip)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal trip: %w", err)
		}
		trips = append(trips, &trip)
	}

	return trips, nil
}

func (d *DynamoDBStorage) GetModel(ctx context.Context, modelID int) (*EVModel, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.modelsTable),
		Key: map[string]types.AttributeValue{
			"ev_model_id": &types.AttributeValueMemberN{Value: strconv.Itoa(modelID)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get ev model: %w", err)
	}

	if result.Item == nil {
		return nil, ErrModelNotFound
	}

	var model EVModel
	err = attributevalue.UnmarshalMap(result.Item, &model)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal ev model: %w", err)
	}

	return &model, nil
}

func (d *DynamoDBStorage) FindModelByName(ctx context.Context, name string) (*EVModel, error) {
	// Case-insensitive contains is not expressible in a filter expression,
	// so scan the catalog and match client-side. The table is small.
	models, err := d.scanModels(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(name))

	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	for _, model := range models {
		if strings.Contains(strings.ToLower(model.ModelName), needle) {
			return model, nil
		}
	}

	return nil, ErrModelNotFound
}

func (d *DynamoDBStorage) ListModels(ctx context.Context) ([]*EVModel, error) {
	models, err := d.scanModels(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(models, func(i, j int) bool { return models[i].ModelName < models[j].ModelName })
	return models, nil
}

func (d *DynamoDBStorage) scanModels(ctx context.Context) ([]*EVModel, error) {
	result, err := d.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(d.modelsTable),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan ev models: %w", err)
	}

	var models []*EVModel
	for _, item := range result.Items {
		var model EVModel
		err = attributevalue.UnmarshalMap(item, &model)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal ev model: %w", err)
		}
		models = append(models, &model)
	}

	return models, nil
}
