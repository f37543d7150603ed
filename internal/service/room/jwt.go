package room

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	userIdKey = "user_id"
	roomIdKey = "room_id"
)

type ConnectClaims struct {
	UserId string `json:"user_id"`
	RoomId string `json:"room_id"`
}

func (s service) GenerateConnectToken(userId, roomId string) (string, error) {
	claims := jwt.MapClaims{
		userIdKey: userId,
		roomIdKey: roomId,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

func (s service) ParseConnectToken(tokenString string) (*ConnectClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userId, ok := claims[userIdKey].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	roomId, ok := claims[roomIdKey].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &ConnectClaims{
		UserId: userId,
		RoomId: roomId,
	}, nil
}
