package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inodb/vibe-genome/internal/genome"
)

// errorBody is the JSON body of every non-2xx response.
type errorBody struct {
	Error string `json:"error"`
}

// fail maps listing and search errors to a status code.
func fail(c *gin.Context, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, genome.ErrMissingIdentifier) {
		status = http.StatusBadRequest
	}
	c.JSON(status, errorBody{Error: err.Error()})
}

func (s *Server) handleGenomes(c *gin.Context) {
	catalog, err := s.svc.Genomes(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	if org := c.Query("organism"); org != "" {
		catalog = catalog.Only(org)
	}
	c.JSON(http.StatusOK, catalog)
}

func (s *Server) handleChromosomes(c *gin.Context) {
	chroms, err := s.svc.Chromosomes(c.Request.Context(), c.Param("genome"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chromosomes": chroms})
}

func (s *Server) handleBrowse(c *gin.Context) {
	res, err := s.svc.BrowseChromosome(c.Request.Context(), c.Param("chrom"), c.Param("genome"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleSearch(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, errorBody{Error: "missing query parameter q"})
		return
	}
	res, err := s.svc.SearchGenes(c.Request.Context(), q, c.Query("genome"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// detailBody adds the failure cause to a detail result.
type detailBody struct {
	genome.DetailResult
	Error string `json:"error,omitempty"`
}

func (s *Server) handleGeneDetails(c *gin.Context) {
	res, err := s.svc.GeneDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	body := detailBody{DetailResult: res}
	if res.Err != nil {
		body.Error = res.Err.Error()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleSequence(c *gin.Context) {
	chrom := c.Query("chrom")
	if chrom == "" {
		c.JSON(http.StatusBadRequest, errorBody{Error: "missing query parameter chrom"})
		return
	}
	start, err := strconv.ParseInt(c.Query("start"), 10, 64)
	if err != nil || start < 1 {
		c.JSON(http.StatusBadRequest, errorBody{Error: "start must be a positive integer"})
		return
	}
	end, err := strconv.ParseInt(c.Query("end"), 10, 64)
	if err != nil || end < start {
		c.JSON(http.StatusBadRequest, errorBody{Error: "end must be an integer not less than start"})
		return
	}

	c.JSON(http.StatusOK, s.svc.Sequence(c.Request.Context(), chrom, c.Param("genome"), start, end))
}
