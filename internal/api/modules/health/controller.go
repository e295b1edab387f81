package health

import (
	"time"

	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/gin-gonic/gin"
)

// Status is the data returned with a successful health check
type Status struct {
	Backend string `json:"backend"`
	Uptime  string `json:"uptime"`
}

type controller struct {
	backend   string
	startedAt time.Time
}

func newController(backend string) *controller {
	return &controller{backend: backend, startedAt: time.Now()}
}

// Return status of the API
func (ctrl *controller) getStatus(c *gin.Context) {
	res := api_types.NewSuccessResponse("OK", Status{
		Backend: ctrl.backend,
		Uptime:  time.Since(ctrl.startedAt).Round(time.Second).String(),
	})
	c.JSON(res.AsGinResponse())
}
