//go:build integration

package steps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/quickmate/backend/internal/domain/entity"
	"github.com/quickmate/backend/internal/integration/persistence/model"
)

var categoryPlaceholder = regexp.MustCompile(`\{\{id:([^}]+)\}\}`)

func (t *testContext) theAPIServerIsRunning() error {
	return t.startServer()
}

func (t *testContext) aUserExistsWithEmailAndRole(email, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewUser("Test User", email, string(hash), entity.Role(role))
	return t.db.DbConn.Create(model.UserFromEntity(user)).Error
}

// iAmLoggedInAs logs in through the API with the default password.
func (t *testContext) iAmLoggedInAs(email string) error {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": defaultPassword})
	if err := t.executeRequest(http.MethodPost, "/api/v1/auth/login", "application/json", payload); err != nil {
		return err
	}
	if t.response.status != http.StatusOK {
		return fmt.Errorf("login as %s failed with status %d: %v", email, t.response.status, t.response.body)
	}

	token, ok := getFieldValue(t.response.body, "token").(string)
	if !ok || token == "" {
		return fmt.Errorf("login response carries no token: %v", t.response.body)
	}
	t.accessToken = token
	t.response = nil
	return nil
}

func (t *testContext) iAmLoggedInAsAnAdmin() error {
	const email = "admin@quickmate.io"
	if err := t.aUserExistsWithEmailAndRole(email, string(entity.RoleAdmin)); err != nil {
		return err
	}
	return t.iAmLoggedInAs(email)
}

func (t *testContext) aCategoryExists(name string) error {
	_, err := t.createCategory(name, nil)
	return err
}

func (t *testContext) aCategoryExistsWithCommission(name, commissionType, value string) error {
	category, err := t.createCategory(name, nil)
	if err != nil {
		return err
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("invalid commission value '%s': %w", value, err)
	}

	var rule *entity.CommissionRule
	switch entity.CommissionType(commissionType) {
	case entity.CommissionTypePercentage:
		rule = entity.NewCategoryCommissionRule(category.ID, nil, &amount, true)
	case entity.CommissionTypeFlat:
		rule = entity.NewCategoryCommissionRule(category.ID, &amount, nil, true)
	default:
		return fmt.Errorf("unknown commission type '%s'", commissionType)
	}
	return t.db.DbConn.Create(model.CommissionRuleFromEntity(rule)).Error
}

func (t *testContext) aSubcategoryExistsUnder(name, parentName string) error {
	parentID, ok := t.categoryIDs[parentName]
	if !ok {
		return fmt.Errorf("category '%s' was not set up", parentName)
	}
	_, err := t.createCategory(name, &parentID)
	return err
}

func (t *testContext) createCategory(name string, parentID *uuid.UUID) (*entity.Category, error) {
	category := entity.NewCategory(name, "", parentID, "")
	if err := t.db.DbConn.Create(model.CategoryFromEntity(category)).Error; err != nil {
		return nil, err
	}
	t.categoryIDs[name] = category.ID
	return category, nil
}

func (t *testContext) theImageHostRejectsTheNextUpload() error {
	t.imageHost.SetResponse(0, http.MethodPost, uploadPath, http.StatusBadRequest, map[string]any{
		"error": map[string]any{"message": "Invalid image file"},
	})
	return nil
}

func (t *testContext) theImageHostShouldHaveReceivedUploads(quantity int) error {
	if got := t.imageHost.RequestCount(http.MethodPost, uploadPath); got != quantity {
		return fmt.Errorf("expected %d uploads, got %d", quantity, got)
	}
	return nil
}

func (t *testContext) theImageHostShouldHaveReceivedDeletions(quantity int) error {
	if got := t.imageHost.RequestCount(http.MethodPost, destroyPath); got != quantity {
		return fmt.Errorf("expected %d deletions, got %d", quantity, got)
	}
	return nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = "" // Clear access token to simulate unauthenticated request
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), "application/json", nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), "application/json", payload)
}

func (t *testContext) iSendRequestsToWithBody(times int, method, path string, body *godog.DocString) error {
	for i := 0; i < times; i++ {
		if err := t.iSendARequestToWithBody(method, path, body); err != nil {
			return err
		}
	}
	return nil
}

func (t *testContext) iSendAMultipartRequestWithFields(method, path string, fields *godog.Table) error {
	return t.sendMultipart(method, path, "", fields)
}

func (t *testContext) iSendAMultipartRequestWithIconAndFields(method, path, iconName string, fields *godog.Table) error {
	return t.sendMultipart(method, path, iconName, fields)
}

// sendMultipart posts a form built from a two-column table, plus an icon file when
// iconName is set.
func (t *testContext) sendMultipart(method, path, iconName string, fields *godog.Table) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, row := range fields.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("expected two cells per field row, got %d", len(row.Cells))
		}
		value := t.replacePlaceholders(row.Cells[1].Value)
		if err := writer.WriteField(row.Cells[0].Value, value); err != nil {
			return err
		}
	}

	if iconName != "" {
		part, err := writer.CreateFormFile("categoryIcon", iconName)
		if err != nil {
			return err
		}
		if _, err := part.Write([]byte("\x89PNG\r\n\x1a\n fake icon")); err != nil {
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return err
	}

	return t.executeRequest(method, t.replacePlaceholders(path), writer.FormDataContentType(), buf.Bytes())
}

// replacePlaceholders swaps {{id:Name}} for the id of the category called Name.
func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	return categoryPlaceholder.ReplaceAllStringFunc(content, func(match string) string {
		name := categoryPlaceholder.FindStringSubmatch(match)[1]
		if id, ok := t.categoryIDs[name]; ok {
			return id.String()
		}
		return match
	})
}

func (t *testContext) executeRequest(method, path, contentType string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.uri+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", contentType)
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	// Remember categories created through the API by name.
	if created, ok := responseBody["category"].(map[string]any); ok {
		name, _ := created["name"].(string)
		if id, err := uuid.Parse(fmt.Sprint(created["id"])); err == nil && name != "" {
			t.categoryIDs[name] = id
		}
	}
	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	expectedValue = t.replacePlaceholders(expectedValue)
	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBeNull(field string) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}
	if value := getFieldValue(body, field); value != nil {
		return fmt.Errorf("field '%s' expected null, got %v", field, value)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, quantity int) error {
	body, err := t.responseObject()
	if err != nil {
		return err
	}

	items, ok := getFieldValue(body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, body)
	}
	if len(items) != quantity {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, quantity, len(items))
	}
	return nil
}

func (t *testContext) responseObject() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.countRows(quantity, table, nil)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}
	return t.countRows(quantity, table, criteria)
}

func (t *testContext) countRows(quantity int, table string, criteria map[string]any) error {
	tableModel, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entitySlicePtr := reflect.New(reflect.SliceOf(reflect.TypeOf(tableModel).Elem()))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	if count := entitySlicePtr.Elem().Len(); count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var field any = object
	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}

		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}

	return field
}
