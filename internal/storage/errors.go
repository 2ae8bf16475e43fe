package storage

import "github.com/bilgisen/visacms/internal/models"

func storeErr(op string, err error) error {
	return &models.StoreError{Op: op, Err: err}
}
