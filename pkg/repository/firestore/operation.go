package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ccirating/pkg/domain/interfaces"
	"github.com/secmon-lab/ccirating/pkg/domain/model"
	"github.com/secmon-lab/ccirating/pkg/domain/types"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// OperationCollection is the default collection name for operations
const OperationCollection = "cci_operations"

type riskInputsDocument struct {
	LTV             float64 `firestore:"ltv"`
	Demanda         int64   `firestore:"demanda"`
	Behavior30To60  int     `firestore:"behavior_30_60"`
	Behavior60To90  int     `firestore:"behavior_60_90"`
	Behavior90Plus  int     `firestore:"behavior_90_plus"`
	Comprometimento float64 `firestore:"comprometimento"`
	Inad30To60      int     `firestore:"inad_30_60"`
	Inad60To90      int     `firestore:"inad_60_90"`
	Inad90Plus      int     `firestore:"inad_90_plus"`
}

type analysisDocument struct {
	Reference     string             `firestore:"reference"`
	Inputs        riskInputsDocument `firestore:"inputs"`
	Scores        map[string]int     `firestore:"scores"`
	NotaMedia     float64            `firestore:"nota_media"`
	NotaFinal     int                `firestore:"nota_final"`
	RatingFinal   string             `firestore:"rating_final"`
	Justification string             `firestore:"justificativa"`
	CalculatedAt  time.Time          `firestore:"timestamp"`
}

type operationDocument struct {
	ID            string             `firestore:"id"`
	Name          string             `firestore:"name"`
	Code          string             `firestore:"code"`
	Issuer        string             `firestore:"issuer"`
	Volume        string             `firestore:"volume"`
	Rate          float64            `firestore:"rate"`
	Indexer       string             `firestore:"indexer"`
	TermMonths    int                `firestore:"term_months"`
	Amortization  string             `firestore:"amortization"`
	IssueDate     time.Time          `firestore:"issue_date"`
	MaturityDate  time.Time          `firestore:"maturity_date"`
	Inputs        riskInputsDocument `firestore:"inputs"`
	Justification string             `firestore:"justification"`
	Analysis      *analysisDocument  `firestore:"analysis,omitempty"`
	RatingFinal   string             `firestore:"rating_final"`
	CreatedAt     time.Time          `firestore:"created_at"`
	UpdatedAt     time.Time          `firestore:"updated_at"`
}

func toRiskInputsDocument(in model.RiskInputs) riskInputsDocument {
	return riskInputsDocument(in)
}

func fromRiskInputsDocument(d riskInputsDocument) model.RiskInputs {
	return model.RiskInputs(d)
}

func operationToDocument(op *model.Operation) *operationDocument {
	doc := &operationDocument{
		ID:            string(op.ID),
		Name:          op.Name,
		Code:          op.Code,
		Issuer:        op.Issuer,
		Volume:        op.Volume.String(),
		Rate:          op.Rate,
		Indexer:       string(op.Indexer),
		TermMonths:    op.TermMonths,
		Amortization:  string(op.Amortization),
		IssueDate:     op.IssueDate,
		MaturityDate:  op.MaturityDate,
		Inputs:        toRiskInputsDocument(op.Inputs),
		Justification: op.Justification,
		RatingFinal:   string(op.Rating()),
		CreatedAt:     op.CreatedAt,
		UpdatedAt:     op.UpdatedAt,
	}

	if a := op.Analysis; a != nil {
		scores := make(map[string]int, 7)
		for _, attr := range types.AllAttributes() {
			scores[string(attr)] = int(a.Scores.Grade(attr))
		}
		scores["soma_behavior"] = a.Scores.SomaBehavior
		scores["soma_inad"] = a.Scores.SomaInad

		doc.Analysis = &analysisDocument{
			Reference:     a.Reference,
			Inputs:        toRiskInputsDocument(a.Inputs),
			Scores:        scores,
			NotaMedia:     a.Result.NotaMedia,
			NotaFinal:     int(a.Result.NotaFinal),
			RatingFinal:   string(a.Result.RatingFinal),
			Justification: a.Justification,
			CalculatedAt:  a.CalculatedAt,
		}
	}

	return doc
}

func documentToOperation(doc *operationDocument) (*model.Operation, error) {
	volume, err := decimal.NewFromString(doc.Volume)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid volume in operation document",
			goerr.V("id", doc.ID), goerr.V("volume", doc.Volume))
	}

	op := &model.Operation{
		ID:            model.OperationID(doc.ID),
		Name:          doc.Name,
		Code:          doc.Code,
		Issuer:        doc.Issuer,
		Volume:        volume,
		Rate:          doc.Rate,
		Indexer:       types.Indexer(doc.Indexer),
		TermMonths:    doc.TermMonths,
		Amortization:  types.Amortization(doc.Amortization),
		IssueDate:     doc.IssueDate,
		MaturityDate:  doc.MaturityDate,
		Inputs:        fromRiskInputsDocument(doc.Inputs),
		Justification: doc.Justification,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}

	if a := doc.Analysis; a != nil {
		op.Analysis = &model.Analysis{
			Reference: a.Reference,
			Inputs:    fromRiskInputsDocument(a.Inputs),
			Scores: model.AttributeScores{
				LTV:             types.Grade(a.Scores[string(types.AttributeLTV)]),
				Demanda:         types.Grade(a.Scores[string(types.AttributeDemanda)]),
				Behavior:        types.Grade(a.Scores[string(types.AttributeBehavior)]),
				Comprometimento: types.Grade(a.Scores[string(types.AttributeComprometimento)]),
				Inadimplencia:   types.Grade(a.Scores[string(types.AttributeInadimplencia)]),
				SomaBehavior:    a.Scores["soma_behavior"],
				SomaInad:        a.Scores["soma_inad"],
			},
			Result: model.FinalRating{
				NotaMedia:   a.NotaMedia,
				NotaFinal:   types.Grade(a.NotaFinal),
				RatingFinal: types.Rating(a.RatingFinal),
			},
			Justification: a.Justification,
			CalculatedAt:  a.CalculatedAt,
		}
	}

	return op, nil
}

type operationRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newOperationRepository(client *firestore.Client) *operationRepository {
	return &operationRepository{
		client:           client,
		collectionPrefix: "",
	}
}

// OperationCollectionName returns the operations collection name under prefix
func OperationCollectionName(prefix string) string {
	if prefix != "" {
		return prefix + "_" + OperationCollection
	}
	return OperationCollection
}

func (r *operationRepository) operationsCollection() string {
	return OperationCollectionName(r.collectionPrefix)
}

func (r *operationRepository) Put(ctx context.Context, op *model.Operation) (*model.Operation, error) {
	if op.ID == "" {
		return nil, goerr.New("operation ID is required")
	}

	docRef := r.client.Collection(r.operationsCollection()).Doc(string(op.ID))

	var stored *model.Operation
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		now := time.Now().UTC()
		createdAt := now

		snap, err := tx.Get(docRef)
		switch {
		case err == nil:
			var existing operationDocument
			if err := snap.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to unmarshal operation", goerr.V("id", op.ID))
			}
			createdAt = existing.CreatedAt
		case status.Code(err) == codes.NotFound:
		default:
			return goerr.Wrap(err, "failed to get operation", goerr.V("id", op.ID))
		}

		stored = op.Copy()
		stored.CreatedAt = createdAt
		stored.UpdatedAt = now
		return tx.Set(docRef, operationToDocument(stored))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put operation", goerr.V("id", op.ID))
	}

	return stored, nil
}

func (r *operationRepository) Get(ctx context.Context, id model.OperationID) (*model.Operation, error) {
	snap, err := r.client.Collection(r.operationsCollection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "operation not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get operation", goerr.V("id", id))
	}

	var doc operationDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal operation", goerr.V("id", id))
	}

	return documentToOperation(&doc)
}

func (r *operationRepository) List(ctx context.Context, opts ...interfaces.ListOperationOption) ([]*model.Operation, error) {
	cfg := interfaces.BuildListOperationConfig(opts...)

	query := r.client.Collection(r.operationsCollection()).Query
	if rating := cfg.Rating(); rating != nil {
		// Requires the composite index created by the migrate command
		query = query.Where("rating_final", "==", string(*rating))
	}
	query = query.OrderBy("updated_at", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var ops []*model.Operation
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate operations")
		}

		var doc operationDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal operation", goerr.V("id", snap.Ref.ID))
		}

		op, err := documentToOperation(&doc)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	return ops, nil
}

func (r *operationRepository) Delete(ctx context.Context, id model.OperationID) error {
	docRef := r.client.Collection(r.operationsCollection()).Doc(string(id))

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "operation not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get operation", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete operation", goerr.V("id", id))
	}

	return nil
}
