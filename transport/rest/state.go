package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
)

// stateHandler - returns the latest published session snapshot.
func (that *Server) stateHandler(c *gin.Context) {
	log := that.logger.With("method", "stateHandler")

	snapshot, err := that.snapshots.Get(c.Request.Context())
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session state yet"})
		return
	}

	if err != nil {
		log.Error("failed to get snapshot", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get session state"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
