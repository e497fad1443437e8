package repository

import (
	"context"

	"fieldledger/internal/domain/entities"
	"fieldledger/internal/usecase/interfaces"
)

const defaultJobsTableName = "jobs"

type checklistItemItem struct {
	Text      string `dynamodbav:"text"`
	Completed bool   `dynamodbav:"completed"`
}

type jobItem struct {
	ID          string              `dynamodbav:"id"`
	CustomerID  string              `dynamodbav:"customer_id"`
	EstimateID  string              `dynamodbav:"estimate_id,omitempty"`
	InvoiceID   string              `dynamodbav:"invoice_id,omitempty"`
	Title       string              `dynamodbav:"title"`
	Description string              `dynamodbav:"description,omitempty"`
	Status      string              `dynamodbav:"status"`
	Priority    string              `dynamodbav:"priority"`
	Price       string              `dynamodbav:"price"`
	Checklist   []checklistItemItem `dynamodbav:"checklist,omitempty"`
	Notes       string              `dynamodbav:"notes,omitempty"`
	ScheduledAt string              `dynamodbav:"scheduled_at,omitempty"`
	CompletedAt string              `dynamodbav:"completed_at,omitempty"`
	CreatedAt   string              `dynamodbav:"created_at"`
	UpdatedAt   string              `dynamodbav:"updated_at"`
}

// JobDynamoRepository persists Job entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
type JobDynamoRepository struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IJobRepository = (*JobDynamoRepository)(nil)

func NewJobDynamoRepository(ddb DynamoAPI, tableName string) *JobDynamoRepository {
	return &JobDynamoRepository{
		ddb:       ddb,
		tableName: tableOrEnv(tableName, "JOBS_TABLE", defaultJobsTableName),
	}
}

func (r *JobDynamoRepository) Create(ctx context.Context, j entities.Job) (entities.Job, error) {
	if err := putNew(ctx, r.ddb, r.tableName, toJobItem(j)); err != nil {
		return entities.Job{}, err
	}
	return j, nil
}

func (r *JobDynamoRepository) GetByID(ctx context.Context, id string) (entities.Job, error) {
	it, found, err := getItem[jobItem](ctx, r.ddb, r.tableName, id)
	if err != nil || !found {
		return entities.Job{}, err
	}
	return fromJobItem(it), nil
}

func (r *JobDynamoRepository) List(ctx context.Context) ([]entities.Job, error) {
	items, err := scanAll[jobItem](ctx, r.ddb, r.tableName)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Job, 0, len(items))
	for _, it := range items {
		out = append(out, fromJobItem(it))
	}
	return out, nil
}

func (r *JobDynamoRepository) Update(ctx context.Context, j entities.Job) (entities.Job, error) {
	ok, err := putExisting(ctx, r.ddb, r.tableName, toJobItem(j))
	if err != nil || !ok {
		return entities.Job{}, err
	}
	return j, nil
}

func toJobItem(j entities.Job) jobItem {
	it := jobItem{
		ID:          j.ID,
		CustomerID:  j.CustomerID,
		EstimateID:  j.EstimateID,
		InvoiceID:   j.InvoiceID,
		Title:       j.Title,
		Description: j.Description,
		Status:      string(j.Status),
		Priority:    string(j.Priority),
		Price:       floatToString(j.Price),
		Notes:       j.Notes,
		ScheduledAt: formatTimePtr(j.ScheduledAt),
		CompletedAt: formatTimePtr(j.CompletedAt),
		CreatedAt:   formatTime(j.CreatedAt),
		UpdatedAt:   formatTime(j.UpdatedAt),
	}
	for _, c := range j.Checklist {
		it.Checklist = append(it.Checklist, checklistItemItem{Text: c.Text, Completed: c.Completed})
	}
	return it
}

func fromJobItem(it jobItem) entities.Job {
	j := entities.Job{
		ID:          it.ID,
		CustomerID:  it.CustomerID,
		EstimateID:  it.EstimateID,
		InvoiceID:   it.InvoiceID,
		Title:       it.Title,
		Description: it.Description,
		Status:      entities.JobStatus(it.Status),
		Priority:    entities.JobPriority(it.Priority),
		Price:       parseFloat(it.Price),
		Notes:       it.Notes,
		ScheduledAt: parseTimePtr(it.ScheduledAt),
		CompletedAt: parseTimePtr(it.CompletedAt),
		CreatedAt:   parseTime(it.CreatedAt),
		UpdatedAt:   parseTime(it.UpdatedAt),
	}
	for _, c := range it.Checklist {
		j.Checklist = append(j.Checklist, entities.ChecklistItem{Text: c.Text, Completed: c.Completed})
	}
	return j
}
