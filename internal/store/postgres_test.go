package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertFieldsQuery(t *testing.T) {
	query, args, err := upsertFieldsQuery("U1", map[string]string{"lon": "2", "lat": "1"})
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO landmarkbot.records (key,field,value) VALUES ($1,$2,$3),($4,$5,$6) "+
			"ON CONFLICT (key, field) DO UPDATE SET value = EXCLUDED.value, updated_at = now()",
		query)
	assert.Equal(t, []any{"U1", "lat", "1", "U1", "lon", "2"}, args)
}

func TestDeleteFieldsQuery(t *testing.T) {
	query, args, err := deleteFieldsQuery("U1", []string{"pending_text"})
	require.NoError(t, err)

	assert.Equal(t, "DELETE FROM landmarkbot.records WHERE field IN ($1) AND key = $2", query)
	assert.Equal(t, []any{"pending_text", "U1"}, args)
}

func TestKeysQuery_EscapesUnderscore(t *testing.T) {
	query, args, err := keysQuery("lm_")
	require.NoError(t, err)

	assert.Equal(t, "SELECT DISTINCT key FROM landmarkbot.records WHERE key LIKE $1 ORDER BY key", query)
	assert.Equal(t, []any{`lm\_%`}, args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%\_sure\\`, escapeLike(`100%_sure\`))
}

func TestRenameQueries(t *testing.T) {
	query, args, err := countKeyQuery("lm_abc")
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM landmarkbot.records WHERE key = $1", query)
	assert.Equal(t, []any{"lm_abc"}, args)

	query, args, err = renameKeyQuery("U1", "lm_abc")
	require.NoError(t, err)
	assert.Equal(t, "UPDATE landmarkbot.records SET key = $1, updated_at = now() WHERE key = $2", query)
	assert.Equal(t, []any{"lm_abc", "U1"}, args)
}
