package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type indexedModel struct {
	ID      string `bson:"_id,omitempty"`
	Email   string `bson:"email" index:"unique"`
	Code    int64  `bson:"code" index:"unique,sparse"`
	Role    string `bson:"role" index:"single:1;compound:role_deleted"`
	Deleted bool   `bson:"deleted" index:"single:-1;compound:role_deleted"`
	Note    string `bson:"note"`
	Skipped string `bson:"-" index:"unique"`
}

func TestParseIndexTag(t *testing.T) {
	assert.Equal(t, []map[string]string{{"unique": "", "sparse": ""}}, parseIndexTag("unique,sparse"))
	assert.Equal(t, []map[string]string{{"single": "1"}, {"compound": "g"}}, parseIndexTag("single:1;compound:g"))
	assert.Empty(t, parseIndexTag(""))
}

func TestIndexSpecsFromModel(t *testing.T) {
	specs := indexSpecsFromModel(&indexedModel{})
	byName := map[string]indexSpec{}
	for _, s := range specs {
		byName[s.Name] = s
	}
	require.Len(t, byName, 6)

	assert.True(t, byName["email_unique"].Unique)
	assert.False(t, byName["email_unique"].Sparse)
	assert.True(t, byName["code_unique"].Sparse)
	assert.Equal(t, bson.D{{Key: "role", Value: 1}}, byName["role_single"].Keys)
	assert.Equal(t, bson.D{{Key: "deleted", Value: -1}}, byName["deleted_single"].Keys)
	assert.Equal(t, bson.D{{Key: "role", Value: 1}, {Key: "deleted", Value: 1}}, byName["role_deleted"].Keys)
	assert.False(t, byName["role_deleted"].Unique)
}

func TestCompareIndex(t *testing.T) {
	spec := indexSpec{Name: "email_unique", Keys: bson.D{{Key: "email", Value: 1}}, Unique: true}

	assert.True(t, compareIndex(bson.M{"key": bson.M{"email": int32(1)}, "unique": true}, spec))
	assert.False(t, compareIndex(bson.M{"key": bson.M{"email": int32(1)}}, spec))
	assert.False(t, compareIndex(bson.M{"key": bson.M{"email": int32(-1)}, "unique": true}, spec))
	assert.False(t, compareIndex(bson.M{"key": bson.M{"name": int32(1)}, "unique": true}, spec))
}
