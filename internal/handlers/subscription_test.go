package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playtube/backend/internal/models"
)

func newSubscriptionFixture() (*SubscriptionHandler, *fakeSubscriptionRepo, *fakeUserRepo) {
	subscriptionRepo := newFakeSubscriptionRepo()
	userRepo := newFakeUserRepo()
	handler := NewSubscriptionHandler(subscriptionRepo, userRepo)
	return handler, subscriptionRepo, userRepo
}

func toggleSubscriptionRequest(handler *SubscriptionHandler, user *models.User, channelID primitive.ObjectID) (*httptest.ResponseRecorder, error) {
	c, rec := newTestContext(http.MethodPost, "/api/v1/channel/"+channelID.Hex()+"/subscription/toggle", nil, "")
	c.SetParamNames("channelId")
	c.SetParamValues(channelID.Hex())
	setCurrentUser(c, user)
	return rec, handler.ToggleSubscription(c)
}

func TestToggleSubscriptionAlternates(t *testing.T) {
	handler, subscriptionRepo, userRepo := newSubscriptionFixture()

	channel := &models.User{ID: primitive.NewObjectID(), Username: "channel"}
	userRepo.add(channel)
	subscriber := &models.User{ID: primitive.NewObjectID(), Username: "viewer"}

	rec, err := toggleSubscriptionRequest(handler, subscriber, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, subscriptionRepo.count())

	envelope, err := decodeEnvelope(rec)
	require.NoError(t, err)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "on", data["state"])

	rec, err = toggleSubscriptionRequest(handler, subscriber, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, subscriptionRepo.count())
}

func TestSelfSubscriptionRejected(t *testing.T) {
	handler, subscriptionRepo, userRepo := newSubscriptionFixture()

	user := &models.User{ID: primitive.NewObjectID(), Username: "channel"}
	userRepo.add(user)

	_, err := toggleSubscriptionRequest(handler, user, user.ID)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, 0, subscriptionRepo.count())
}

func TestToggleSubscriptionMissingChannel(t *testing.T) {
	handler, subscriptionRepo, _ := newSubscriptionFixture()

	subscriber := &models.User{ID: primitive.NewObjectID()}
	_, err := toggleSubscriptionRequest(handler, subscriber, primitive.NewObjectID())
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.Equal(t, 0, subscriptionRepo.count())
}

func TestGetSubscribedChannels(t *testing.T) {
	handler, _, userRepo := newSubscriptionFixture()

	channelA := &models.User{ID: primitive.NewObjectID(), Username: "a"}
	channelB := &models.User{ID: primitive.NewObjectID(), Username: "b"}
	userRepo.add(channelA)
	userRepo.add(channelB)
	subscriber := &models.User{ID: primitive.NewObjectID(), Username: "viewer"}

	_, err := toggleSubscriptionRequest(handler, subscriber, channelA.ID)
	require.NoError(t, err)
	_, err = toggleSubscriptionRequest(handler, subscriber, channelB.ID)
	require.NoError(t, err)

	c, rec := newTestContext(http.MethodGet, "/api/v1/subscriptions/"+subscriber.ID.Hex(), nil, "")
	c.SetParamNames("subscriberId")
	c.SetParamValues(subscriber.ID.Hex())
	require.NoError(t, handler.GetSubscribedChannels(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	envelope, err := decodeEnvelope(rec)
	require.NoError(t, err)
	assert.Len(t, envelope["data"], 2)
}
