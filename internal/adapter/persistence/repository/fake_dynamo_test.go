package repository

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory stand-in for the handful of DynamoDB calls the
// repositories make. Items are keyed by their "id" or "bucket" attribute.
type fakeDynamo struct {
	mu       sync.Mutex
	tables   map[string]map[string]map[string]types.AttributeValue
	pageSize int
	err      error
}

var _ DynamoAPI = (*fakeDynamo)(nil)

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := f.tables[name]
	if !ok {
		t = map[string]map[string]types.AttributeValue{}
		f.tables[name] = t
	}
	return t
}

func keyOf(item map[string]types.AttributeValue) string {
	for _, k := range []string{"id", "bucket"} {
		if s, ok := item[k].(*types.AttributeValueMemberS); ok {
			return s.Value
		}
	}
	return ""
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	t := f.table(aws.ToString(in.TableName))
	k := keyOf(in.Item)
	_, exists := t[k]
	cond := aws.ToString(in.ConditionExpression)
	if strings.HasPrefix(cond, "attribute_not_exists") && exists {
		return nil, conditionFailed()
	}
	if strings.HasPrefix(cond, "attribute_exists") && !exists {
		return nil, conditionFailed()
	}
	t[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.table(aws.ToString(in.TableName))[keyOf(in.Key)]}, nil
}

// UpdateItem only understands the "ADD #name :value" counter update.
func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	fields := strings.Fields(aws.ToString(in.UpdateExpression))
	if len(fields) < 3 || fields[0] != "ADD" {
		return nil, errors.New("fake: unsupported update expression")
	}
	attr := in.ExpressionAttributeNames[fields[1]]
	delta, _ := strconv.Atoi(in.ExpressionAttributeValues[fields[2]].(*types.AttributeValueMemberN).Value)

	t := f.table(aws.ToString(in.TableName))
	k := keyOf(in.Key)
	item, ok := t[k]
	if !ok {
		item = map[string]types.AttributeValue{}
		for name, v := range in.Key {
			item[name] = v
		}
		t[k] = item
	}
	cur := 0
	if n, ok := item[attr].(*types.AttributeValueMemberN); ok {
		cur, _ = strconv.Atoi(n.Value)
	}
	next := &types.AttributeValueMemberN{Value: strconv.Itoa(cur + delta)}
	item[attr] = next
	return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{attr: next}}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var all []map[string]types.AttributeValue
	for _, it := range f.table(aws.ToString(in.TableName)) {
		all = append(all, it)
	}
	page, last := f.page(all, in.ExclusiveStartKey)
	return &dynamodb.ScanOutput{Items: page, LastEvaluatedKey: last}, nil
}

// Query matches the single key condition value against the attribute the
// index is named after, e.g. "invoice_id-index".
func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	attr := strings.TrimSuffix(aws.ToString(in.IndexName), "-index")
	var want string
	for _, v := range in.ExpressionAttributeValues {
		want = v.(*types.AttributeValueMemberS).Value
	}
	var all []map[string]types.AttributeValue
	for _, it := range f.table(aws.ToString(in.TableName)) {
		if s, ok := it[attr].(*types.AttributeValueMemberS); ok && s.Value == want {
			all = append(all, it)
		}
	}
	page, last := f.page(all, in.ExclusiveStartKey)
	return &dynamodb.QueryOutput{Items: page, LastEvaluatedKey: last}, nil
}

// page splits items into pages of pageSize using the start key as an offset.
func (f *fakeDynamo) page(items []map[string]types.AttributeValue, start map[string]types.AttributeValue) ([]map[string]types.AttributeValue, map[string]types.AttributeValue) {
	sort.Slice(items, func(i, j int) bool { return keyOf(items[i]) < keyOf(items[j]) })
	offset := 0
	if n, ok := start["offset"].(*types.AttributeValueMemberN); ok {
		offset, _ = strconv.Atoi(n.Value)
	}
	if f.pageSize <= 0 || offset+f.pageSize >= len(items) {
		return items[offset:], nil
	}
	end := offset + f.pageSize
	return items[offset:end], map[string]types.AttributeValue{"offset": &types.AttributeValueMemberN{Value: strconv.Itoa(end)}}
}
