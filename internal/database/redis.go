package database

import (
	"context"
	"time"

	"github.com/asdine/storm/v3/codec/json"
	"github.com/mdouchement/notepad/internal/model"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var errRedisAlreadyExists = errors.New("redis: already exists")

// renameScript moves a hash field to another one.
// Returns 0 when the source is missing, -1 when the target is taken.
var renameScript = redis.NewScript(`
local doc = redis.call('HGET', KEYS[1], ARGV[1])
if not doc then
	return 0
end
if ARGV[1] == ARGV[2] then
	return 1
end
if redis.call('HEXISTS', KEYS[1], ARGV[2]) == 1 then
	return -1
end
redis.call('HDEL', KEYS[1], ARGV[1])
redis.call('HSET', KEYS[1], ARGV[2], doc)
return 1
`)

// document is the body stored for each note.
type document struct {
	Details string `json:"details"`
}

type rds struct {
	client     *redis.Client
	collection string
}

// RedisOpen returns a new Redis database connection.
// Notes are stored in one hash named after the collection.
func RedisOpen(cred Credentials) (Client, error) {
	if cred.URL == "" {
		return nil, errors.New("redis url not found")
	}

	opts, err := redis.ParseURL(cred.URL)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse redis url")
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &rds{
		client:     client,
		collection: collection(cred),
	}, nil
}

// Close the database.
func (c *rds) Close() error {
	return c.client.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *rds) IsNotFound(err error) bool {
	return errors.Cause(err) == redis.Nil
}

// IsAlreadyExists returns true if err is an already exists error.
func (c *rds) IsAlreadyExists(err error) bool {
	return errors.Cause(err) == errRedisAlreadyExists
}

// FindNote returns the note for the given key.
func (c *rds) FindNote(ctx context.Context, key string) (*model.Note, error) {
	payload, err := c.client.HGet(ctx, c.collection, key).Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "could not find note")
	}

	var doc document
	if err = json.Codec.Unmarshal(payload, &doc); err != nil {
		return nil, errors.Wrap(err, "could not decode note")
	}

	return &model.Note{
		Key:     key,
		Details: doc.Details,
	}, nil
}

// FindNoteKeys returns the keys of all the notes.
func (c *rds) FindNoteKeys(ctx context.Context) ([]string, error) {
	keys, err := c.client.HKeys(ctx, c.collection).Result()
	if err != nil {
		return nil, errors.Wrap(err, "could not find notes")
	}
	return keys, nil
}

// CreateNote inserts the given note.
func (c *rds) CreateNote(ctx context.Context, note *model.Note) error {
	payload, err := encode(note)
	if err != nil {
		return err
	}

	created, err := c.client.HSetNX(ctx, c.collection, note.Key, payload).Result()
	if err != nil {
		return errors.Wrap(err, "could not save note")
	}
	if !created {
		return errors.Wrap(errRedisAlreadyExists, "could not create note")
	}
	return nil
}

// SaveNote inserts or replaces the given note.
func (c *rds) SaveNote(ctx context.Context, note *model.Note) error {
	payload, err := encode(note)
	if err != nil {
		return err
	}

	err = c.client.HSet(ctx, c.collection, note.Key, payload).Err()
	return errors.Wrap(err, "could not save note")
}

// DeleteNote deletes the note for the given key, if any.
func (c *rds) DeleteNote(ctx context.Context, key string) error {
	err := c.client.HDel(ctx, c.collection, key).Err()
	return errors.Wrap(err, "could not delete note")
}

// RenameNote atomically moves the note stored at previous to key.
func (c *rds) RenameNote(ctx context.Context, previous, key string) error {
	status, err := renameScript.Run(ctx, c.client, []string{c.collection}, previous, key).Int()
	if err != nil {
		return errors.Wrap(err, "could not rename note")
	}

	switch status {
	case 0:
		return errors.Wrap(redis.Nil, "could not find note to rename")
	case -1:
		return errors.Wrap(errRedisAlreadyExists, "could not rename note")
	}
	return nil
}

func encode(note *model.Note) ([]byte, error) {
	payload, err := json.Codec.Marshal(document{Details: note.Details})
	return payload, errors.Wrap(err, "could not encode note")
}
