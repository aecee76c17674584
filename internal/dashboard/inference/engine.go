package inference

import (
	"fmt"
	"time"

	common "github.com/Ranjith01111/aether-system/internal/common/config"
	"github.com/Ranjith01111/aether-system/internal/models"

	tf "github.com/wamuir/graft/tensorflow"
	"go.uber.org/zap"
)

// SavedModel 的 signature 约定（Keras 导出的 serving_default）
const (
	savedModelTag     = "serve"
	classifierInputOp = "serving_default_sensor_input"
	forecasterInputOp = "serving_default_sequence_input"
	signatureOutputOp = "StatefulPartitionedCall"
)

// Predictor 模型推理接口
// 消费方（报警评估、审计、趋势）依赖此接口，测试时可替换为假实现
type Predictor interface {
	// Classify 对一组传感器读数做异常分类
	Classify(temperature, vibration, fuel float64) (*models.PredictionResult, error)
	// Forecast 基于最近读数序列预测未来 steps 步
	Forecast(series []float64, steps int) ([]float64, error)
}

// Engine TensorFlow SavedModel 推理引擎
// 启动时加载模型，进程生命周期内复用 Session
type Engine struct {
	config     *common.ModelConfig
	classifier *tf.SavedModel
	forecaster *tf.SavedModel
	logger     *zap.Logger
}

// NewEngine 加载模型并创建推理引擎
func NewEngine(cfg *common.ModelConfig, logger *zap.Logger) (*Engine, error) {
	classifier, err := tf.LoadSavedModel(cfg.ClassifierPath, []string{savedModelTag}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifier model from %s: %w", cfg.ClassifierPath, err)
	}

	forecaster, err := tf.LoadSavedModel(cfg.ForecastPath, []string{savedModelTag}, nil)
	if err != nil {
		classifier.Session.Close()
		return nil, fmt.Errorf("failed to load forecast model from %s: %w", cfg.ForecastPath, err)
	}

	logger.Info("Inference engine ready",
		zap.String("classifier_path", cfg.ClassifierPath),
		zap.String("forecast_path", cfg.ForecastPath),
		zap.Float64("confidence_threshold", cfg.ConfidenceThreshold),
	)

	return &Engine{
		config:     cfg,
		classifier: classifier,
		forecaster: forecaster,
		logger:     logger,
	}, nil
}

// Close 释放模型 Session
func (e *Engine) Close() {
	if e.classifier != nil {
		e.classifier.Session.Close()
	}
	if e.forecaster != nil {
		e.forecaster.Session.Close()
	}
}

// Classify 对一组传感器读数做异常分类
// 模型输入 shape [1,3]（温度、振动、燃料），输出 [1,1] 故障概率
func (e *Engine) Classify(temperature, vibration, fuel float64) (*models.PredictionResult, error) {
	input, err := tf.NewTensor([][]float32{{float32(temperature), float32(vibration), float32(fuel)}})
	if err != nil {
		return nil, fmt.Errorf("failed to build input tensor: %w", err)
	}

	output, err := e.run(e.classifier, classifierInputOp, input)
	if err != nil {
		return nil, fmt.Errorf("classifier inference failed: %w", err)
	}

	probs, ok := output.Value().([][]float32)
	if !ok || len(probs) == 0 || len(probs[0]) == 0 {
		return nil, fmt.Errorf("unexpected classifier output shape")
	}

	probability := float64(probs[0][0])
	result := &models.PredictionResult{
		FailureProbability: probability,
		EvaluatedAt:        time.Now(),
	}
	if probability >= e.config.ConfidenceThreshold {
		result.Status = models.StatusCritical
		result.Confidence = probability
	} else {
		result.Status = models.StatusNominal
		result.Confidence = 1 - probability
	}

	return result, nil
}

// Forecast 预测未来 steps 步的传感器读数
// 模型输入 shape [1,W,1]（最近 W 个读数），输出 [1,1] 下一步预测
// 多步预测通过滑动窗口迭代实现
func (e *Engine) Forecast(series []float64, steps int) ([]float64, error) {
	window := e.config.ForecastWindow
	if len(series) < window {
		return nil, fmt.Errorf("series too short for forecast: have %d, need %d", len(series), window)
	}
	if steps <= 0 {
		steps = e.config.ForecastSteps
	}

	// 滑动窗口取最后 W 个读数
	buf := make([]float64, window)
	copy(buf, series[len(series)-window:])

	forecast := make([]float64, 0, steps)
	for i := 0; i < steps; i++ {
		input, err := tf.NewTensor(toSequenceTensor(buf))
		if err != nil {
			return nil, fmt.Errorf("failed to build sequence tensor: %w", err)
		}

		output, err := e.run(e.forecaster, forecasterInputOp, input)
		if err != nil {
			return nil, fmt.Errorf("forecast inference failed at step %d: %w", i, err)
		}

		preds, ok := output.Value().([][]float32)
		if !ok || len(preds) == 0 || len(preds[0]) == 0 {
			return nil, fmt.Errorf("unexpected forecast output shape")
		}

		next := float64(preds[0][0])
		forecast = append(forecast, next)

		// 窗口前移一步，预测值作为下一步输入
		copy(buf, buf[1:])
		buf[window-1] = next
	}

	return forecast, nil
}

// run 执行一次 Session.Run
func (e *Engine) run(model *tf.SavedModel, inputOp string, input *tf.Tensor) (*tf.Tensor, error) {
	inOp := model.Graph.Operation(inputOp)
	if inOp == nil {
		return nil, fmt.Errorf("input operation %s not found in graph", inputOp)
	}
	outOp := model.Graph.Operation(signatureOutputOp)
	if outOp == nil {
		return nil, fmt.Errorf("output operation %s not found in graph", signatureOutputOp)
	}

	results, err := model.Session.Run(
		map[tf.Output]*tf.Tensor{inOp.Output(0): input},
		[]tf.Output{outOp.Output(0)},
		nil,
	)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("session returned no outputs")
	}

	return results[0], nil
}

// toSequenceTensor 把一维序列转成 [1,W,1] 的三维输入
func toSequenceTensor(series []float64) [][][]float32 {
	seq := make([][]float32, len(series))
	for i, v := range series {
		seq[i] = []float32{float32(v)}
	}
	return [][][]float32{seq}
}
