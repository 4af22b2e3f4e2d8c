package adapters

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/config"
	"github.com/jamieforrest/speakyer-proc/domain"
)

type dynamoLedgerItem struct {
	LockKey   string `dynamodbav:"lock_key"`
	Location  string `dynamodbav:"location"`
	InputKey  string `dynamodbav:"input_key"`
	Status    string `dynamodbav:"status"`
	UpdatedAt string `dynamodbav:"updated_at"`
	ExpiresAt int64  `dynamodbav:"expires_at"`
	TTL       int64  `dynamodbav:"ttl"`
}

type dynamoProcessingLedger struct {
	logger       outbound.LoggerPort
	dynamoSvc    dynamodbiface.DynamoDBAPI
	dynamoConfig *config.DynamoConfig
	now          func() time.Time
}

func NewDynamoProcessingLedger(logger outbound.LoggerPort, dynamoSvc dynamodbiface.DynamoDBAPI, dynamoConfig *config.DynamoConfig) outbound.ProcessingLedgerPort {
	return &dynamoProcessingLedger{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
		now:          time.Now,
	}
}

func ledgerLockKey(location string, inputKey string) string {
	return location + "/" + inputKey
}

// Claim writes a processing row unless an unexpired one already exists. Completed and
// failed rows can be claimed again; the stage caches make that cheap.
func (l *dynamoProcessingLedger) Claim(ctx context.Context, location string, inputKey string) error {
	now := l.now()
	item := l.item(location, inputKey, outbound.ProcessingStatusProcessing, now)
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		l.logger.ErrorWithFields(err, "Failed to marshal ledger item", map[string]interface{}{
			"lock_key": item.LockKey,
		})
		return err
	}

	input := &dynamodb.PutItemInput{
		Item:                av,
		TableName:           aws.String(l.dynamoConfig.TableName),
		ConditionExpression: aws.String("attribute_not_exists(lock_key) OR #status <> :processing OR expires_at < :now"),
		ExpressionAttributeNames: map[string]*string{
			"#status": aws.String("status"),
		},
		ExpressionAttributeValues: map[string]*dynamodb.AttributeValue{
			":processing": {S: aws.String(string(outbound.ProcessingStatusProcessing))},
			":now":        {N: aws.String(strconv.FormatInt(now.Unix(), 10))},
		},
	}

	_, err = l.dynamoSvc.PutItemWithContext(ctx, input)
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
			return fmt.Errorf("%s: %w", item.LockKey, domain.ErrAlreadyProcessing)
		}
		l.logger.ErrorWithFields(err, "Failed to claim ledger item", map[string]interface{}{
			"lock_key": item.LockKey,
		})
		return err
	}

	return nil
}

func (l *dynamoProcessingLedger) Release(ctx context.Context, location string, inputKey string, status outbound.ProcessingStatus) error {
	item := l.item(location, inputKey, status, l.now())
	av, err := dynamodbattribute.MarshalMap(item)
	if err != nil {
		return err
	}

	_, err = l.dynamoSvc.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		Item:      av,
		TableName: aws.String(l.dynamoConfig.TableName),
	})
	if err != nil {
		l.logger.ErrorWithFields(err, "Failed to release ledger item", map[string]interface{}{
			"lock_key": item.LockKey,
			"status":   string(status),
		})
		return err
	}

	return nil
}

func (l *dynamoProcessingLedger) item(location string, inputKey string, status outbound.ProcessingStatus, now time.Time) dynamoLedgerItem {
	expiresAt := now.Add(time.Duration(l.dynamoConfig.TtlMinutes) * time.Minute)
	return dynamoLedgerItem{
		LockKey:   ledgerLockKey(location, inputKey),
		Location:  location,
		InputKey:  inputKey,
		Status:    string(status),
		UpdatedAt: now.UTC().Format(time.RFC3339),
		ExpiresAt: expiresAt.Unix(),
		TTL:       now.Add(7 * 24 * time.Hour).Unix(),
	}
}

type noopProcessingLedger struct{}

// NewNoopProcessingLedger never refuses a claim.
func NewNoopProcessingLedger() outbound.ProcessingLedgerPort {
	return noopProcessingLedger{}
}

func (noopProcessingLedger) Claim(context.Context, string, string) error {
	return nil
}

func (noopProcessingLedger) Release(context.Context, string, string, outbound.ProcessingStatus) error {
	return nil
}
