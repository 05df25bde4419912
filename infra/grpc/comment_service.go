package grpc

import (
	"commentadmin/app/comment"
	"commentadmin/domain"
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// CommentServiceName is the fully qualified gRPC service name. Requests and
// responses are google.protobuf.Struct values carrying the JSON shape of the
// HTTP API.
const CommentServiceName = "commentadmin.v1.CommentService"

type CommentServiceHandler interface {
	SaveComment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListComments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetCommentParam(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetCommentDetail(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SearchByCondition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var CommentServiceDesc = grpc.ServiceDesc{
	ServiceName: CommentServiceName,
	HandlerType: (*CommentServiceHandler)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SaveComment", Handler: unaryHandler("SaveComment", CommentServiceHandler.SaveComment)},
		{MethodName: "ListComments", Handler: unaryHandler("ListComments", CommentServiceHandler.ListComments)},
		{MethodName: "GetCommentParam", Handler: unaryHandler("GetCommentParam", CommentServiceHandler.GetCommentParam)},
		{MethodName: "GetCommentDetail", Handler: unaryHandler("GetCommentDetail", CommentServiceHandler.GetCommentDetail)},
		{MethodName: "SearchByCondition", Handler: unaryHandler("SearchByCondition", CommentServiceHandler.SearchByCondition)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "commentadmin/v1/comment_service.proto",
}

func RegisterCommentServiceServer(registrar grpc.ServiceRegistrar, srv CommentServiceHandler) {
	registrar.RegisterService(&CommentServiceDesc, srv)
}

type CommentServiceServer struct {
	service *comment.Service
}

func NewCommentServiceServer(service *comment.Service) *CommentServiceServer {
	return &CommentServiceServer{
		service: service,
	}
}

type saveRequest struct {
	ItemID     string `json:"item_id"`
	Score      *int   `json:"score"`
	CreateTime string `json:"create_time"`
	IDC        string `json:"idc"`
	Content    string `json:"content"`
	Contact    string `json:"contact"`
}

type pageRequest struct {
	PageNum int `json:"pageNum"`
	Score   int `json:"score"`
}

type searchRequest struct {
	StartTime int64  `json:"startTime"`
	EndTime   int64  `json:"endTime"`
	Score     int    `json:"score"`
	Type      int    `json:"type"`
	TypeData  string `json:"typeData"`
}

func (s *CommentServiceServer) SaveComment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in saveRequest
	if err := decodeStruct(req, &in); err != nil {
		return nil, err
	}

	if in.Score == nil {
		return nil, status.Error(codes.InvalidArgument, "invalid score: is required")
	}

	saved, err := s.service.SaveComment(ctx, domain.Comment{
		ItemID:     in.ItemID,
		Score:      *in.Score,
		CreateTime: in.CreateTime,
		IDC:        in.IDC,
		Content:    in.Content,
		Contact:    in.Contact,
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return encodeStruct(map[string]any{"comment": saved})
}

func (s *CommentServiceServer) ListComments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pageRequest
	if err := decodeStruct(req, &in); err != nil {
		return nil, err
	}

	comments, err := s.service.ListComments(ctx, in.PageNum, in.Score)
	if err != nil {
		return nil, s.mapError(err)
	}

	return encodeStruct(map[string]any{"comments": comments})
}

func (s *CommentServiceServer) GetCommentParam(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	param, err := s.service.GetCommentParam(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}

	return encodeStruct(param)
}

func (s *CommentServiceServer) GetCommentDetail(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in pageRequest
	if err := decodeStruct(req, &in); err != nil {
		return nil, err
	}

	details, err := s.service.GetCommentDetail(ctx, in.PageNum, in.Score)
	if err != nil {
		return nil, s.mapError(err)
	}

	return encodeStruct(map[string]any{"comments": details})
}

func (s *CommentServiceServer) SearchByCondition(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in searchRequest
	if err := decodeStruct(req, &in); err != nil {
		return nil, err
	}

	details, err := s.service.SearchByCondition(ctx, comment.SearchCondition{
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Score:     in.Score,
		Type:      comment.SearchType(in.Type),
		TypeData:  in.TypeData,
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return encodeStruct(map[string]any{"comments": details})
}

func (s *CommentServiceServer) mapError(err error) error {
	if comment.IsValidation(err) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}

func unaryHandler(method string, call func(CommentServiceHandler, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	fullMethod := "/" + CommentServiceName + "/" + method

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		handler := srv.(CommentServiceHandler)
		if interceptor == nil {
			return call(handler, ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(handler, ctx, req.(*structpb.Struct))
		})
	}
}

// decodeStruct maps a Struct onto v through its JSON form.
func decodeStruct(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}

	body, err := protojson.Marshal(in)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	if err := json.Unmarshal(body, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	return nil
}

func encodeStruct(v any) (*structpb.Struct, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(body, out); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return out, nil
}
