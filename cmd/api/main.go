package main

import (
    "encoding/csv"
    "net/http"
    "os"
    "strings"

    "github.com/gin-gonic/gin"
    "go.uber.org/zap"

    "github.com/joevus/mlforsocialscience/internal/dataset"
    "github.com/joevus/mlforsocialscience/internal/ensemble"
    "github.com/joevus/mlforsocialscience/internal/models"
    "github.com/joevus/mlforsocialscience/pkg/utils"
)

var ens *ensemble.Ensemble

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    modelPath := os.Getenv("MODEL_PATH")
    if modelPath == "" { modelPath = "models/ensemble.gob" }
    loaded, err := ensemble.Load(modelPath)
    if err != nil {
        logger.Warn("No fitted ensemble, serving baseline mean model",
            zap.String("path", modelPath), zap.Error(err))
        ens = baselineEnsemble(logger)
    } else {
        ens = loaded
        logger.Info("Ensemble loaded",
            zap.String("path", modelPath),
            zap.String("learner", ens.LearnerName),
            zap.Int("replicates", len(ens.Models)),
        )
    }

    r := gin.Default()
    r.Static("/static", "cmd/api/static")
    r.GET("/lessons/data", lessonData)
    r.GET("/lessons/metrics", lessonMetrics)

    api := r.Group("/")
    api.Use(apiKeyMiddleware)
    api.POST("/predict", handlePredict)
    api.POST("/batch", handleBatch)

    port := os.Getenv("PORT")
    if port == "" { port = "8080" }
    r.Run(":" + port)
}

// baselineEnsemble fits a mean-only ensemble on the lesson dataset when no
// trained model is on disk, so the endpoints still answer.
func baselineEnsemble(logger *zap.Logger) *ensemble.Ensemble {
    dataPath := os.Getenv("DATA_PATH")
    if dataPath == "" { dataPath = "data/housing.csv" }
    table, err := dataset.LoadCSV(dataPath, outcomeName())
    if err == nil {
        e, err := ensemble.Fit(table, models.NewMeanLearner(), ensemble.Options{Replicates: 25, Seed: 1})
        if err == nil { return e }
        logger.Warn("Baseline fit failed", zap.Error(err))
    }
    return &ensemble.Ensemble{
        LearnerName: "Mean",
        Models:      []models.Predictor{&models.MeanModel{}},
    }
}

func outcomeName() string {
    if v := os.Getenv("OUTCOME"); v != "" { return v }
    return "price"
}

func apiKeyMiddleware(c *gin.Context) {
    key := os.Getenv("API_KEY")
    if key == "" { c.Next(); return }
    if c.GetHeader("X-API-Key") != key {
        c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
        return
    }
    c.Next()
}

type predictReq struct {
    Features map[string]float64 `json:"features"`
}

func (r predictReq) vector(order []string) ([]float64, string) {
    vec := make([]float64, len(order))
    for i, name := range order {
        v, ok := r.Features[name]
        if !ok { return nil, name }
        vec[i] = v
    }
    return vec, ""
}

func handlePredict(c *gin.Context) {
    var req predictReq
    if err := c.BindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
        return
    }
    vec, missing := req.vector(ens.Features)
    if missing != "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "missing feature: " + missing})
        return
    }
    mean, variance, err := ens.Predict([][]float64{vec})
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "prediction": mean[0],
        "variance":   variance[0],
        "band":       dispersionBand(variance[0]),
        "learner":    ens.LearnerName,
        "replicates": len(ens.Models),
    })
}

func handleBatch(c *gin.Context) {
    var items []predictReq
    if err := c.BindJSON(&items); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
        return
    }
    X := make([][]float64, 0, len(items))
    for _, it := range items {
        vec, missing := it.vector(ens.Features)
        if missing != "" {
            c.JSON(http.StatusBadRequest, gin.H{"error": "missing feature: " + missing})
            return
        }
        X = append(X, vec)
    }
    if len(X) == 0 {
        c.JSON(http.StatusOK, []gin.H{})
        return
    }
    mean, variance, err := ens.Predict(X)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    out := make([]gin.H, len(items))
    for i := range items {
        out[i] = gin.H{
            "prediction": mean[i],
            "variance":   variance[i],
            "band":       dispersionBand(variance[i]),
        }
    }
    c.JSON(http.StatusOK, out)
}

// dispersionBand labels how much the replicates disagree on a prediction,
// which is what the lesson asks students to look at.
func dispersionBand(variance float64) string {
    switch {
    case variance >= 9:
        return "high"
    case variance >= 1:
        return "moderate"
    default:
        return "low"
    }
}

func lessonData(c *gin.Context) {
    dataPath := os.Getenv("DATA_PATH")
    if dataPath == "" { dataPath = "data/housing.csv" }
    table, err := dataset.LoadCSV(dataPath, outcomeName())
    if err != nil { c.JSON(http.StatusOK, gin.H{"items": []gin.H{}}); return }

    max := 200
    if table.Len() < max { max = table.Len() }
    idx := make([]int, max)
    for i := range idx { idx[i] = i }
    sample := table.Select(idx)

    mean, variance, err := ens.Predict(sample.X)
    if err != nil { c.JSON(http.StatusOK, gin.H{"items": []gin.H{}}); return }

    items := make([]gin.H, 0, max)
    for i := 0; i < max; i++ {
        row := gin.H{
            "outcome":    sample.Y[i],
            "prediction": mean[i],
            "variance":   variance[i],
            "band":       dispersionBand(variance[i]),
        }
        for j, name := range sample.FeatureNames { row[name] = sample.X[i][j] }
        items = append(items, row)
    }
    c.JSON(http.StatusOK, gin.H{"items": items, "learner": ens.LearnerName})
}

func lessonMetrics(c *gin.Context) {
    path := os.Getenv("CURVE_CSV")
    if path == "" { path = "data/variance_curve.csv" }
    f, err := os.Open(path)
    if err != nil { c.JSON(http.StatusOK, gin.H{"metrics": gin.H{}}); return }
    defer f.Close()
    rows, err := csv.NewReader(f).ReadAll()
    if err != nil || len(rows) < 2 { c.JSON(http.StatusOK, gin.H{"metrics": gin.H{}}); return }

    hdr := rows[0]
    out := gin.H{}
    last := rows[len(rows)-1]
    for i := range hdr {
        if i < len(last) { out[strings.TrimSpace(hdr[i])] = last[i] }
    }
    c.JSON(http.StatusOK, gin.H{"metrics": out})
}
