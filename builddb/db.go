package builddb

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// BucketRuns holds one JSON-encoded Run per key (the run's UUID).
const BucketRuns = "runs"

// DB wraps a bbolt database of build run history.
//
// Grounded on the teacher's builddb/db.go (OpenDB/Close/SaveRecord
// shape, bolt.Open(path, 0600, nil), CreateBucketIfNotExists on open);
// the CRC-index bucket is dropped — valet's own incremental
// correctness comes from plan.Optimize's mtime/depfile comparison,
// not a separate CRC cache, so crc_index has no role here.
type DB struct {
	db *bolt.DB
}

// Run is one recorded build invocation.
type Run struct {
	UUID             string    `json:"uuid"`
	ProjectFolder     string    `json:"project_folder"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	PackagesCompiled  int       `json:"packages_compiled"`
	PackagesLinked    int       `json:"packages_linked"`
	PackagesPruned    int       `json:"packages_pruned"`
	Success           bool      `json:"success"`
	CompilationTimeS  float64   `json:"compilation_time_s"`
	LinkTimeS         float64   `json:"link_time_s"`
	TotalTimeS        float64   `json:"total_time_s"`
}

// NewRun returns a Run with a fresh UUID and StartTime set to now.
func NewRun(projectFolder string) Run {
	return Run{
		UUID:          uuid.NewString(),
		ProjectFolder: projectFolder,
		StartTime:     time.Now(),
	}
}

// Open opens or creates a bbolt database at path, initializing the
// runs bucket if needed.
func Open(path string) (*DB, error) {
	bdb, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, &DatabaseError{Op: "open", Err: err}
	}

	err = bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BucketRuns))
		if err != nil {
			return &DatabaseError{Op: "create-bucket", Bucket: BucketRuns, Err: err}
		}
		return nil
	})
	if err != nil {
		bdb.Close()
		return nil, err
	}

	return &DB{db: bdb}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// SaveRun persists run, keyed by its UUID.
func (d *DB) SaveRun(run Run) error {
	if run.UUID == "" {
		return &RecordError{Op: "save", Err: ErrEmptyUUID}
	}

	data, err := json.Marshal(run)
	if err != nil {
		return &RecordError{Op: "marshal", UUID: run.UUID, Err: err}
	}

	return d.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketRuns))
		if bucket == nil {
			return &DatabaseError{Op: "get-bucket", Bucket: BucketRuns, Err: ErrBucketNotFound}
		}
		return bucket.Put([]byte(run.UUID), data)
	})
}

// GetRun looks up a run by UUID.
func (d *DB) GetRun(id string) (Run, error) {
	var run Run
	err := d.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketRuns))
		if bucket == nil {
			return &DatabaseError{Op: "get-bucket", Bucket: BucketRuns, Err: ErrBucketNotFound}
		}
		data := bucket.Get([]byte(id))
		if data == nil {
			return &RecordError{Op: "get", UUID: id, Err: ErrRecordNotFound}
		}
		return json.Unmarshal(data, &run)
	})
	return run, err
}

// RecentRuns returns up to limit most-recently-saved runs, newest
// first. bbolt stores keys sorted lexically, not insertion order,
// so this scans all runs and sorts by StartTime.
func (d *DB) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := d.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(BucketRuns))
		if bucket == nil {
			return &DatabaseError{Op: "get-bucket", Bucket: BucketRuns, Err: ErrBucketNotFound}
		}
		return bucket.ForEach(func(_, v []byte) error {
			var run Run
			if err := json.Unmarshal(v, &run); err != nil {
				return err
			}
			runs = append(runs, run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sortRunsByStartTimeDesc(runs)
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func sortRunsByStartTimeDesc(runs []Run) {
	for i := 1; i < len(runs); i++ {
		for j := i; j > 0 && runs[j].StartTime.After(runs[j-1].StartTime); j-- {
			runs[j], runs[j-1] = runs[j-1], runs[j]
		}
	}
}
