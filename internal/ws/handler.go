package ws

import (
	"net/http"
	"strconv"

	"hoops_signup/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// @Summary		Live roster updates
// @Description	Upgrades to a websocket that receives {event_type, schedule_id, data} frames whenever the roster changes
// @Tags			schedules
// @Security		BearerAuth
// @Param			id		path	int		true	"Schedule ID"
// @Param			token	query	string	false	"Access token, for clients that cannot send the Authorization header"
// @Success		101
// @Failure		400	{object}	response.ErrorResponse	"Invalid schedule id (INVALID_ID)"
// @Router			/api/schedules/{id}/ws [get]
func (h *Hub) ServeWS(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_ID",
			Message: "schedule id must be a positive integer",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade", zap.Error(err))
		return
	}
	client := &Client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		scheduleID: uint(id),
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
