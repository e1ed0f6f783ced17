package authfile

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewFilesRepository(db *bun.DB) repository.Repository[*File] {
	handlers := repository.ModelHandlers[*File]{
		NewRecord: func() *File {
			return &File{}
		},
		GetID: func(record *File) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *File, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "storage_key"
		},
	}
	return repository.NewRepository(db, handlers)
}
