package controller

import (
	"time"

	httpdto "github.com/vibast-solutions/ms-go-contacts/app/dto/http"
	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/service"
)

// UserResponse maps a user row to the public payload, dropping the password
// hash and refresh token.
func UserResponse(user *entity.User) httpdto.UserResponse {
	resp := httpdto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	}
	if user.Avatar.Valid {
		resp.Avatar = user.Avatar.String
	}
	return resp
}

func tokenResponse(pair *service.TokenPair) httpdto.TokenResponse {
	return httpdto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	}
}

func contactResponse(contact *entity.Contact) httpdto.ContactResponse {
	resp := httpdto.ContactResponse{
		ID:          contact.ID,
		FirstName:   contact.FirstName,
		LastName:    contact.LastName,
		Email:       contact.Email,
		PhoneNumber: contact.PhoneNumber,
		DateOfBirth: contact.DateOfBirth.Format("2006-01-02"),
		CreatedAt:   contact.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   contact.UpdatedAt.Format(time.RFC3339),
	}
	if contact.Note.Valid {
		resp.Note = contact.Note.String
	}
	return resp
}

func contactResponses(contacts []*entity.Contact) []httpdto.ContactResponse {
	out := make([]httpdto.ContactResponse, 0, len(contacts))
	for _, contact := range contacts {
		out = append(out, contactResponse(contact))
	}
	return out
}

