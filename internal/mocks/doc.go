// Package mocks provides function-field test doubles for the interfaces the
// service and API layers depend on.
//
// Each mock has one Fn field per method; when a field is nil the mock returns
// its default values instead:
//
//	store := &mocks.MockTaskStore{
//	    GetByIDFn: func(ctx context.Context, id int64) (*domain.Task, error) {
//	        return nil, store.ErrTaskNotFound
//	    },
//	}
package mocks
