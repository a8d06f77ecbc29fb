package app

import (
	"net/http"
	"strconv"

	"github.com/metinatakli/hall-designer/api"
	"github.com/metinatakli/hall-designer/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	DefaultSort     = "id"
)

func (app *application) GetFilms(w http.ResponseWriter, r *http.Request) {
	params := readFilmListParams(r)

	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	pagination := toPagination(params)

	films, metadata, err := app.filmRepo.GetAll(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.FilmListResponse{
		Films:    toFilmSummaries(films),
		Metadata: toApiMetadata(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func readFilmListParams(r *http.Request) api.FilmListParams {
	params := api.FilmListParams{}
	query := r.URL.Query()

	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		params.Page = page
	}
	if pageSize, err := strconv.Atoi(query.Get("pageSize")); err == nil {
		params.PageSize = pageSize
	}

	params.Term = query.Get("term")
	params.Sort = query.Get("sort")

	return params
}

func toPagination(params api.FilmListParams) domain.Pagination {
	pagination := domain.Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
		Sort:     DefaultSort,
		Term:     params.Term,
	}

	if params.Page != 0 {
		pagination.Page = params.Page
	}
	if params.PageSize != 0 {
		pagination.PageSize = params.PageSize
	}
	if params.Sort != "" {
		pagination.Sort = params.Sort
	}

	return pagination
}

func toFilmSummaries(films []*domain.Film) []api.FilmSummary {
	summaries := make([]api.FilmSummary, len(films))

	for i, film := range films {
		summaries[i] = api.FilmSummary{
			Id:          film.ID,
			Title:       film.Title,
			Description: film.Description,
			PosterUrl:   film.PosterUrl,
			ReleaseDate: film.ReleaseDate.Format("2006-01-02"),
		}
	}

	return summaries
}

func toApiMetadata(metadata *domain.Metadata) *api.Metadata {
	if metadata == nil {
		return nil
	}

	return &api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
