package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fieldledger/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultSequencesTableName = "document_sequences"

var ErrSequenceNotReturned = errors.New("sequence counter returned no value")

type sequenceItem struct {
	Bucket    string `dynamodbav:"bucket"`
	Seq       int    `dynamodbav:"seq"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// SequenceDynamoRepository hands out document sequence values from an
// atomic counter per prefix and month.
//
// Table requirements:
//   - PK: bucket (string), e.g. "INV#2026-02"
type SequenceDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
	now       func() time.Time
}

var _ interfaces.ISequenceRepository = (*SequenceDynamoRepository)(nil)

func NewSequenceDynamoRepository(ddb DynamoAPI, tableName string) *SequenceDynamoRepository {
	return &SequenceDynamoRepository{
		ddb:       ddb,
		tableName: tableOrEnv(tableName, "SEQUENCES_TABLE", defaultSequencesTableName),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SequenceBucket is the counter key for prefix in the given month.
func SequenceBucket(prefix string, year, month int) string {
	return fmt.Sprintf("%s#%04d-%02d", strings.ToUpper(strings.TrimSpace(prefix)), year, month)
}

// Next increments the counter with a single UpdateItem ADD, so concurrent
// callers never receive the same value. The first call in a month returns 1.
func (r *SequenceDynamoRepository) Next(ctx context.Context, prefix string, year, month int) (int, error) {
	bucket := SequenceBucket(prefix, year, month)
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"bucket": &types.AttributeValueMemberS{Value: bucket},
		},
		UpdateExpression: aws.String("ADD #seq :one SET #updated_at = :now"),
		ExpressionAttributeNames: map[string]string{
			"#seq":        "seq",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":now": &types.AttributeValueMemberS{Value: formatTime(r.now())},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, err
	}

	var it sequenceItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return 0, err
	}
	if it.Seq <= 0 {
		return 0, fmt.Errorf("%w: bucket=%s", ErrSequenceNotReturned, bucket)
	}
	return it.Seq, nil
}
