// Package sheets - append-only аналитика поверх Google Sheets.
// Таблица - system of record; отсюда нет update/delete, запись
// сериализуется самим коллаборатором.
package sheets

import (
	"context"
	"time"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// RowAppender / RowReader - узкие интерфейсы поверх Sheets API,
// чтобы сервисы тестировались без сети
type RowAppender interface {
	Append(ctx context.Context, readRange string, row []interface{}) error
}

type RowReader interface {
	Read(ctx context.Context, readRange string) ([][]interface{}, error)
}

// Client - реальный коллаборатор
type Client struct {
	svc           *sheetsapi.Service
	SpreadsheetID string
}

// NewClient строит клиент из файла сервис-аккаунта
func NewClient(ctx context.Context, credentialsFile, spreadsheetID string) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, SpreadsheetID: spreadsheetID}, nil
}

func (c *Client) Append(ctx context.Context, readRange string, row []interface{}) error {
	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := c.svc.Spreadsheets.Values.
		Append(c.SpreadsheetID, readRange, &sheetsapi.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(callCtx).
		Do()
	return err
}

func (c *Client) Read(ctx context.Context, readRange string) ([][]interface{}, error) {
	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := c.svc.Spreadsheets.Values.Get(c.SpreadsheetID, readRange).Context(callCtx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}
