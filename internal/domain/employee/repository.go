package employee

import "context"

// Directory supplies employee pay inputs. It is an external collaborator;
// the PostgreSQL implementation reads the platform's employees table.
type Directory interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]Employee, error)
}
