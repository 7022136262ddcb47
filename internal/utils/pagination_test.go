package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func paramsFor(query string) *PaginationParams {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	p := paramsFor("")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.Limit)
	assert.Equal(t, "createdAt", p.Sort)
	assert.Equal(t, "desc", p.Order)

	p = paramsFor("page=-3&limit=1000&order=sideways&sort=$where")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageSize, p.Limit)
	assert.Equal(t, "desc", p.Order)
	assert.Equal(t, "createdAt", p.Sort)

	p = paramsFor("page=3&limit=10&search=acme")
	assert.Equal(t, int64(20), p.GetSkip())
	assert.Equal(t, "acme", p.Search)
}

func TestSearchFilterQuotesInput(t *testing.T) {
	p := &PaginationParams{Search: "a.b*"}
	f := p.GetSearchFilter([]string{"nombre"})
	or := f["$or"].([]bson.M)
	assert.Equal(t, `a\.b\*`, or[0]["nombre"].(bson.M)["$regex"])

	assert.Empty(t, (&PaginationParams{}).GetSearchFilter([]string{"nombre"}))
}

func TestCreatePaginationMeta(t *testing.T) {
	meta := CreatePaginationMeta(&PaginationParams{Page: 2, Limit: 10}, 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrevious)
}
