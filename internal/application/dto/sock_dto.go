package dto

import "github.com/jhoicas/socks-api/internal/domain/entity"

// SockRequest body de income, outcome y PUT /api/socks/{id}.
type SockRequest struct {
	Color      string `json:"color" example:"azul"`
	CottonPart int    `json:"cottonPart" example:"80"`
	Quantity   int    `json:"quantity" example:"3"`
}

// SockResponse salida de un lote de calcetines.
type SockResponse struct {
	ID         int64  `json:"id"`
	Color      string `json:"color"`
	CottonPart int    `json:"cottonPart"`
	Quantity   int    `json:"quantity"`
}

// BatchResponse salida de POST /api/socks/batch.
type BatchResponse struct {
	Message string `json:"message"`
	Lines   int    `json:"lines"`
}

// ToSockResponse adapta la entidad a la salida HTTP.
func ToSockResponse(s *entity.Sock) SockResponse {
	return SockResponse{
		ID:         s.ID,
		Color:      s.Color,
		CottonPart: s.CottonPart,
		Quantity:   s.Quantity,
	}
}

// ToSockResponses adapta una lista; nunca devuelve nil para serializar como [].
func ToSockResponses(list []*entity.Sock) []SockResponse {
	out := make([]SockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToSockResponse(s))
	}
	return out
}
