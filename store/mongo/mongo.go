// Package mongo implements store.Store on MongoDB. Reports run as
// aggregation pipelines inside the database.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"propertyexpenses/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	expensesCollection   = "expenses"
	propertiesCollection = "properties"
)

type expenseDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Property      *string            `bson:"property,omitempty"`
	Date          time.Time          `bson:"date"`
	DateOffset    int                `bson:"dateOffset"`
	Year          int                `bson:"year"`
	Month         int                `bson:"month"`
	Amount        float64            `bson:"amount"`
	Category      *string            `bson:"category,omitempty"`
	Description   *string            `bson:"description,omitempty"`
	PaidBy        string             `bson:"paidBy"`
	PaymentMethod string             `bson:"paymentMethod"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d expenseDoc) record() store.Expense {
	return store.Expense{
		ID:            d.ID.Hex(),
		Property:      d.Property,
		Date:          store.AtOffset(d.Date, d.DateOffset),
		Year:          d.Year,
		Month:         d.Month,
		Amount:        d.Amount,
		Category:      d.Category,
		Description:   d.Description,
		PaidBy:        d.PaidBy,
		PaymentMethod: d.PaymentMethod,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type accountDoc struct {
	Service       string `bson:"service"`
	AccountNumber string `bson:"accountNumber"`
}

type propertyDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Accounts  []accountDoc       `bson:"accounts"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d propertyDoc) record() store.Property {
	p := store.Property{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Accounts:  make([]store.Account, 0, len(d.Accounts)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, a := range d.Accounts {
		p.Accounts = append(p.Accounts, store.Account{Service: a.Service, AccountNumber: a.AccountNumber})
	}
	return p
}

type Store struct {
	client     *mongo.Client
	expenses   *mongo.Collection
	properties *mongo.Collection
	now        func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open connects to uri, selects database and makes sure the report indexes exist.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := New(client, database)
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// New wraps a connected client.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:     client,
		expenses:   db.Collection(expensesCollection),
		properties: db.Collection(propertiesCollection),
		now:        time.Now,
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.expenses.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "property", Value: 1}}},
		{Keys: bson.D{{Key: "year", Value: 1}, {Key: "month", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create expense indexes: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// objectID parses a hex id. Anything that is not an ObjectID cannot match.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrNotFound
	}
	return oid, nil
}

func (s *Store) CreateExpense(ctx context.Context, e store.Expense) (store.Expense, error) {
	if err := store.PrepareExpense(&e); err != nil {
		return store.Expense{}, err
	}

	now := s.now().UTC()
	doc := expenseDoc{
		ID:            primitive.NewObjectID(),
		Property:      e.Property,
		Date:          e.Date,
		DateOffset:    store.DateOffset(e.Date),
		Year:          e.Year,
		Month:         e.Month,
		Amount:        e.Amount,
		Category:      e.Category,
		Description:   e.Description,
		PaidBy:        e.PaidBy,
		PaymentMethod: e.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.expenses.InsertOne(ctx, doc); err != nil {
		return store.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return s.GetExpense(ctx, doc.ID.Hex())
}

func (s *Store) GetExpense(ctx context.Context, id string) (store.Expense, error) {
	oid, err := objectID(id)
	if err != nil {
		return store.Expense{}, err
	}

	var doc expenseDoc
	if err := s.expenses.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Expense{}, store.ErrNotFound
		}
		return store.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return doc.record(), nil
}

func (s *Store) ListExpenses(ctx context.Context, filter store.ExpenseFilter) ([]store.Expense, error) {
	query := bson.D{}
	if filter.Property != nil {
		query = append(query, bson.E{Key: "property", Value: *filter.Property})
	}
	if filter.Year != nil {
		query = append(query, bson.E{Key: "year", Value: *filter.Year})
	}
	if filter.Month != nil {
		query = append(query, bson.E{Key: "month", Value: *filter.Month})
	}

	cur, err := s.expenses.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	var docs []expenseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}

	expenses := make([]store.Expense, 0, len(docs))
	for _, d := range docs {
		expenses = append(expenses, d.record())
	}
	return expenses, nil
}

func (s *Store) UpdateExpense(ctx context.Context, e store.Expense) (store.Expense, error) {
	oid, err := objectID(e.ID)
	if err != nil {
		return store.Expense{}, err
	}
	if err := store.PrepareExpense(&e); err != nil {
		return store.Expense{}, err
	}

	set := bson.M{
		"date":          e.Date,
		"dateOffset":    store.DateOffset(e.Date),
		"year":          e.Year,
		"month":         e.Month,
		"amount":        e.Amount,
		"paidBy":        e.PaidBy,
		"paymentMethod": e.PaymentMethod,
		"updatedAt":     s.now().UTC(),
	}
	unset := bson.M{}
	for key, v := range map[string]*string{"property": e.Property, "category": e.Category, "description": e.Description} {
		if v == nil {
			unset[key] = ""
		} else {
			set[key] = *v
		}
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var doc expenseDoc
	err = s.expenses.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Expense{}, store.ErrNotFound
		}
		return store.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	return doc.record(), nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := s.expenses.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) TotalsByProperty(ctx context.Context) ([]store.PropertyTotal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$property"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "property", Value: "$_id"},
			{Key: "total", Value: 1},
		}}},
	}

	cur, err := s.expenses.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("total expenses by property: %w", err)
	}
	var rows []struct {
		Property *string `bson:"property"`
		Total    float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode property totals: %w", err)
	}

	totals := make([]store.PropertyTotal, 0, len(rows))
	for _, r := range rows {
		totals = append(totals, store.PropertyTotal{Property: r.Property, Total: r.Total})
	}
	return totals, nil
}

func (s *Store) TopPayers(ctx context.Context, q store.TopPayersQuery) ([]store.PayerTotal, error) {
	match := bson.D{{Key: "year", Value: q.Year}}
	if q.Months != nil {
		match = append(match, bson.E{Key: "month", Value: bson.D{
			{Key: "$gte", Value: q.Months.Start},
			{Key: "$lte", Value: q.Months.End},
		}})
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$paidBy"},
			{Key: "totalPaid", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "totalPaid", Value: -1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "paidBy", Value: "$_id"},
			{Key: "totalPaid", Value: 1},
		}}},
	}

	cur, err := s.expenses.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("top payers: %w", err)
	}
	var rows []struct {
		PaidBy    string  `bson:"paidBy"`
		TotalPaid float64 `bson:"totalPaid"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode payer totals: %w", err)
	}

	totals := make([]store.PayerTotal, 0, len(rows))
	for _, r := range rows {
		totals = append(totals, store.PayerTotal{PaidBy: r.PaidBy, TotalPaid: r.TotalPaid})
	}
	return totals, nil
}

func (s *Store) CreateProperty(ctx context.Context, p store.Property) (store.Property, error) {
	if err := p.Validate(); err != nil {
		return store.Property{}, err
	}

	now := s.now().UTC()
	doc := propertyDoc{
		ID:        primitive.NewObjectID(),
		Name:      p.Name,
		Accounts:  make([]accountDoc, 0, len(p.Accounts)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, a := range p.Accounts {
		doc.Accounts = append(doc.Accounts, accountDoc{Service: a.Service, AccountNumber: a.AccountNumber})
	}
	if _, err := s.properties.InsertOne(ctx, doc); err != nil {
		return store.Property{}, fmt.Errorf("insert property: %w", err)
	}
	return doc.record(), nil
}

func (s *Store) ListProperties(ctx context.Context) ([]store.Property, error) {
	cur, err := s.properties.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	var docs []propertyDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}

	properties := make([]store.Property, 0, len(docs))
	for _, d := range docs {
		properties = append(properties, d.record())
	}
	return properties, nil
}

func (s *Store) GetProperty(ctx context.Context, id string) (store.Property, error) {
	oid, err := objectID(id)
	if err != nil {
		return store.Property{}, err
	}

	var doc propertyDoc
	if err := s.properties.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Property{}, store.ErrNotFound
		}
		return store.Property{}, fmt.Errorf("get property: %w", err)
	}
	return doc.record(), nil
}

// AddAccount appends with a single $push so concurrent appends are not lost.
func (s *Store) AddAccount(ctx context.Context, propertyID string, a store.Account) (store.Property, error) {
	if err := a.Validate(); err != nil {
		return store.Property{}, err
	}
	oid, err := objectID(propertyID)
	if err != nil {
		return store.Property{}, err
	}

	update := bson.M{
		"$push": bson.M{"accounts": accountDoc{Service: a.Service, AccountNumber: a.AccountNumber}},
		"$set":  bson.M{"updatedAt": s.now().UTC()},
	}
	var doc propertyDoc
	err = s.properties.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Property{}, store.ErrNotFound
		}
		return store.Property{}, fmt.Errorf("add account: %w", err)
	}
	return doc.record(), nil
}
