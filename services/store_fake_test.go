package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"reelmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// memoryStore is an in-memory Store used across the service tests.
type memoryStore struct {
	mu             sync.Mutex
	tables         map[string]map[string]map[string]types.AttributeValue
	failPuts       bool
	failQueries    bool
	missingIndexes map[string]bool // "table/index" -> treat GSI as absent
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		tables:         make(map[string]map[string]map[string]types.AttributeValue),
		missingIndexes: make(map[string]bool),
	}
}

var tableKeys = map[string][]string{
	models.VideoAssetsTable:    {"videoId"},
	models.ViewEventsTable:     {"viewId"},
	models.LikeEventsTable:     {"videoId", "viewerId"},
	models.UserProfilesTable:   {"userId"},
	models.MatchDecisionsTable: {"fromUser", "toUser", "createdAt"},
}

func storageKey(tableName string, item map[string]types.AttributeValue) string {
	parts := make([]string, 0, 2)
	for _, attr := range tableKeys[tableName] {
		if v, ok := item[attr].(*types.AttributeValueMemberS); ok {
			parts = append(parts, v.Value)
		}
	}
	return strings.Join(parts, "|")
}

func (m *memoryStore) table(name string) map[string]map[string]types.AttributeValue {
	if m.tables[name] == nil {
		m.tables[name] = make(map[string]map[string]types.AttributeValue)
	}
	return m.tables[name]
}

func (m *memoryStore) seed(tableName string, item interface{}) {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table(tableName)[storageKey(tableName, marshaled)] = marshaled
}

func (m *memoryStore) size(tableName string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.table(tableName))
}

func (m *memoryStore) PutItem(ctx context.Context, tableName string, item interface{}) error {
	if m.failPuts {
		return errors.New("simulated store failure")
	}
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table(tableName)[storageKey(tableName, marshaled)] = marshaled
	return nil
}

func (m *memoryStore) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := storageKey(tableName, key)
	item, ok := m.table(tableName)[id]
	if !ok {
		return nil, &NotFoundError{Resource: tableName, ID: id}
	}
	return item, nil
}

func (m *memoryStore) QueryItems(ctx context.Context, tableName, keyConditionExpression string, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	if m.failQueries {
		return nil, errors.New("simulated query failure")
	}
	return m.match(tableName, keyConditionExpression, expressionAttributeValues), nil
}

func (m *memoryStore) QueryItemsWithIndex(ctx context.Context, tableName, indexName, keyConditionExpression string, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	if m.failQueries {
		return nil, errors.New("simulated query failure")
	}
	if m.missingIndexes[tableName+"/"+indexName] {
		return nil, &IndexRequiredError{Table: tableName, Index: indexName, Hint: "create the GSI"}
	}
	return m.match(tableName, keyConditionExpression, expressionAttributeValues), nil
}

func (m *memoryStore) UpdateItem(ctx context.Context, tableName, updateExpression string, key map[string]types.AttributeValue, expressionAttributeValues map[string]types.AttributeValue, expressionAttributeNames map[string]string) (map[string]types.AttributeValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := storageKey(tableName, key)
	item, ok := m.table(tableName)[id]
	if !ok {
		return nil, &NotFoundError{Resource: tableName, ID: id}
	}

	// Supports the single-assignment SET form the services use.
	expr := strings.TrimPrefix(updateExpression, "SET ")
	sides := strings.SplitN(expr, " = ", 2)
	if len(sides) != 2 {
		return nil, errors.New("unsupported update expression: " + updateExpression)
	}
	field := sides[0]
	if resolved, ok := expressionAttributeNames[field]; ok {
		field = resolved
	}
	item[field] = expressionAttributeValues[sides[1]]
	return item, nil
}

func (m *memoryStore) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.table(tableName), storageKey(tableName, key))
	return nil
}

func (m *memoryStore) ScanWithFilter(ctx context.Context, tableName string, filterFunc func(map[string]types.AttributeValue) bool, excludeFields map[string]string, result interface{}) error {
	m.mu.Lock()
	var items []map[string]types.AttributeValue
	for _, item := range m.table(tableName) {
		excluded := false
		for field, value := range excludeFields {
			if v, ok := item[field].(*types.AttributeValueMemberS); ok && v.Value == value {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if filterFunc == nil || filterFunc(item) {
			items = append(items, item)
		}
	}
	m.mu.Unlock()
	return attributevalue.UnmarshalListOfMaps(items, result)
}

// match filters a table by the "field = :placeholder" key condition.
func (m *memoryStore) match(tableName, keyConditionExpression string, values map[string]types.AttributeValue) []map[string]types.AttributeValue {
	sides := strings.SplitN(keyConditionExpression, " = ", 2)
	if len(sides) != 2 {
		return nil
	}
	field := strings.TrimSpace(sides[0])
	want, _ := values[strings.TrimSpace(sides[1])].(*types.AttributeValueMemberS)
	if want == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var items []map[string]types.AttributeValue
	for _, item := range m.table(tableName) {
		if v, ok := item[field].(*types.AttributeValueMemberS); ok && v.Value == want.Value {
			items = append(items, item)
		}
	}
	return items
}
