package store

import (
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/gofrs/flock"
)

// ErrDataFileLocked another session holds the data file
var ErrDataFileLocked = errors.New("data file is in use by another session")

// DataFileLock exclusive claim over a data file for one session
type DataFileLock struct {
	lock *flock.Flock
}

// LockPath the lock file guarding a data file
func LockPath(dataFile string) string {
	return dataFile + ".lock"
}

/*
AcquireLock take a non-blocking exclusive lock on the data file

	@param dataFile string - the data file to guard
	@returns the held lock
*/
func AcquireLock(dataFile string) (*DataFileLock, error) {
	lockPath := LockPath(dataFile)
	fileLock := flock.New(lockPath)

	acquired, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s [%w]", lockPath, err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: %s", ErrDataFileLocked, lockPath)
	}

	log.WithField("lock", lockPath).Debug("Acquired data file lock")
	return &DataFileLock{lock: fileLock}, nil
}

// Release give up the lock
func (l *DataFileLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock %s [%w]", l.lock.Path(), err)
	}
	return nil
}
