package headhunter

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	SearchPath = "/vacancies"
)

type SearchParams struct {
	Text string `yaml:"text" mapstructure:"text"`
	// hhparam is custom tag for reflect. Please see below.
	Areas        []int    `hhparam:"area" mapstructure:"areas"`
	OrderBy      string   `yaml:"order_by" mapstructure:"order_by"`
	SearchField  string   `yaml:"search_field" mapstructure:"search_field"`
	Schedules    []string `hhparam:"schedule" mapstructure:"schedules"`
	Professional []string `hhparam:"professional_role" mapstructure:"professional_roles"`
	PerPage      string   `yaml:"per_page" mapstructure:"per_page"`
	Experience   string   `yaml:"experience" mapstructure:"experience"`
	Period       uint     `yaml:"period" mapstructure:"period"`
}

// Search returns every vacancy matching params across all result pages.
func (c *Client) Search(ctx context.Context, params *SearchParams) (*Vacancies, error) {
	if params == nil {
		params = &SearchParams{}
	}
	// Set per_page max as possible. It should be faster.
	if params.PerPage == "" {
		params.PerPage = perPage
	}

	items, err := c.listAll(ctx, c.APIURL+SearchPath, buildParams(params))
	if err != nil {
		return nil, fmt.Errorf("searching vacancies: %w", err)
	}

	var vacancies []*Vacancy
	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &vacancies,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decoding vacancies: %w", err)
	}

	c.logger.Info("vacancies fetched", zap.Int("vacancies", len(vacancies)))

	return &Vacancies{
		Items: vacancies,
	}, nil
}

// GetVacancy fetches the full vacancy including its description and key skills.
func (c *Client) GetVacancy(ctx context.Context, id string) (*Vacancy, error) {
	var v Vacancy
	if err := c.get(ctx, c.APIURL+SearchPath+"/"+url.PathEscape(id), nil, &v); err != nil {
		return nil, fmt.Errorf("get vacancy %s: %w", id, err)
	}
	return &v, nil
}

// FetchDetails replaces search results with their full versions. Vacancies
// that fail to load keep their snippet.
func (c *Client) FetchDetails(ctx context.Context, v *Vacancies) error {
	for i, vacancy := range v.Items {
		if err := ctx.Err(); err != nil {
			return err
		}
		full, err := c.GetVacancy(ctx, vacancy.ID)
		if err != nil {
			c.logger.Debug("fetching detailed vacancy failed",
				zap.String("vacancy_id", vacancy.ID),
				zap.Error(err),
			)
			continue
		}
		if full.Snippet == (Snippet{}) {
			full.Snippet = vacancy.Snippet
		}
		v.Items[i] = full
	}
	return nil
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		// Our custom tag is using here.
		key := field.Tag.Get("hhparam")
		if key == "" {
			// Failover to default tag if our tag do not exist.
			key = field.Tag.Get("yaml")
		}
		kind := field.Type.Kind()
		switch kind {
		case reflect.Slice:

			s := reflect.ValueOf(params).Elem().Field(field.Index[0]).Interface()
			switch v := s.(type) {
			case []int:
				for _, value := range v {
					q.Add(key, strconv.Itoa(value))
				}

			case []string:
				for _, value := range v {
					q.Add(key, value)
				}
			}

		default:
			value := fmt.Sprintf("%v", reflect.ValueOf(params).Elem().Field(field.Index[0]).Interface())
			if value != "" && value != "0" {
				q.Set(key, value)
			}
		}
	}

	return q
}
