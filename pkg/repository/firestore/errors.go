package firestore

import "github.com/secmon-lab/ccirating/pkg/domain/interfaces"

var ErrNotFound = interfaces.ErrNotFound
