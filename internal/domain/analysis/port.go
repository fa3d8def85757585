package analysis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, a *ContractAnalysis) error
	Get(ctx context.Context, userID string, id ID) (*ContractAnalysis, error)
	ListByUser(ctx context.Context, userID string) ([]*ContractAnalysis, error)
	Delete(ctx context.Context, userID string, id ID) error
}

// Gateway port ke service analisa eksternal
type Gateway interface {
	Analyze(ctx context.Context, req Request) (Result, error)
	Available(ctx context.Context) bool
}

// Archive port untuk menyimpan salinan kontrak dan hasil (object storage)
type Archive interface {
	Put(ctx context.Context, a *ContractAnalysis) (string, error)
	Remove(ctx context.Context, userID string, id ID) error
}
