package middleware

import (
	"strconv"

	"cat_registry/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	// CoordsKey holds the resolved *model.GeoPoint in the gin context
	CoordsKey = "coords"
)

// CoordinateMiddleware resolves a geographic point for create/update requests
// from "lat"/"lng" form or query values, independent of the JSON body. When
// either value is missing or unparseable no point is attached.
func CoordinateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		latStr := c.PostForm("lat")
		if latStr == "" {
			latStr = c.Query("lat")
		}
		lngStr := c.PostForm("lng")
		if lngStr == "" {
			lngStr = c.Query("lng")
		}

		if latStr != "" && lngStr != "" {
			lat, latErr := strconv.ParseFloat(latStr, 64)
			lng, lngErr := strconv.ParseFloat(lngStr, 64)
			if latErr == nil && lngErr == nil {
				c.Set(CoordsKey, &model.GeoPoint{
					Type:        "Point",
					Coordinates: []float64{lng, lat}, // GeoJSON order: [lon, lat]
				})
			}
		}

		c.Next()
	}
}

// GetCoords retrieves the geographic point resolved for this request, if any
func GetCoords(c *gin.Context) *model.GeoPoint {
	val, exists := c.Get(CoordsKey)
	if !exists {
		return nil
	}
	point, ok := val.(*model.GeoPoint)
	if !ok {
		return nil
	}
	return point
}
